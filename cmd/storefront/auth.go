package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLoginCmd(a *app) *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				password, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = password
			}

			resp, err := a.api.SignIn(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := a.tokens.Set(resp.Token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}

			payload, err := auth.ParseUnverified(resp.Token)
			if err != nil {
				a.printf("Signed in as %s\n", req.Email)
				return nil
			}
			a.printf("Signed in as %s (%s)\n", payload.Email, payload.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password, read from stdin when empty")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var user models.User

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.Password == "" {
				password, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				user.Password = password
			}

			created, err := a.api.Register(cmd.Context(), user)
			if err != nil {
				return err
			}
			a.printf("Registered %s with id %d, sign in with `storefront login -e %s`\n", created.Email, created.ID, created.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&user.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&user.Password, "password", "p", "", "account password, read from stdin when empty")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := a.tokens.Get()
			if token == "" {
				a.printf("Not signed in\n")
				return nil
			}

			// the local token is dropped even when the server call fails
			if _, err := a.api.Logout(cmd.Context(), token); err != nil {
				logger.Log.Warn("logout request failed", zap.Error(err))
			}
			if err := a.tokens.Clear(); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}
			a.printf("Signed out\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := a.tokens.Get()
			if token == "" {
				return models.ErrNotSignedIn
			}

			if remote {
				profile, err := a.api.CurrentUser(cmd.Context(), token)
				if err != nil {
					return err
				}
				a.printf("%s <%s>\nid:   %d\nrole: %s\n", profile.Name, profile.Email, profile.ID, profile.Role)
				return nil
			}

			payload, err := auth.ParseUnverified(token)
			if err != nil {
				return fmt.Errorf("stored token: %w", err)
			}
			a.printf("%s\nid:      %d\nrole:    %s\n", payload.Email, payload.UserID, payload.Role)
			if !payload.ExpiresAt.IsZero() {
				expires := payload.ExpiresAt.Local().Format(time.DateTime)
				if payload.Expired(time.Now()) {
					expires = warnStyle.Render(expires + " (expired)")
				}
				a.printf("expires: %s\n", expires)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of reading the stored token")
	return cmd
}

// readLine prompts on stderr and reads one line of input
func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
