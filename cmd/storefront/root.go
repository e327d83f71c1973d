package main

import (
	"fmt"
	"io"

	"github.com/rookgm/storefront/config"
	"github.com/rookgm/storefront/internal/client"
	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/tokenstore"
	"github.com/spf13/cobra"
)

// app is shared state of the commands, filled in before any command runs
type app struct {
	flags  *config.Flags
	cfg    *config.Config
	tokens tokenstore.Store
	api    *client.Client
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Command line client of the storefront commerce API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	a.flags = config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newOrdersCmd(a),
		newProductsCmd(a),
		newPaymentsCmd(a),
		newStubCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := a.flags.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	a.cfg = cfg
	a.tokens = tokenstore.NewFile(cfg.TokenFile)
	a.api = client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenSource(a.tokens),
		client.WithLogger(logger.Log),
	)
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
