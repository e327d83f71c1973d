package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rookgm/storefront/internal/apierr"
)

// BodyKind is how a successful body was classified
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyJSON
	BodyText
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyJSON:
		return "json"
	case BodyText:
		return "text"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

var errNotText = errors.New("body is not text")

// Result is a decoded successful response
type Result struct {
	StatusCode  int
	ContentType string
	Kind        BodyKind
	Body        []byte
}

// Text returns the body as text
func (r *Result) Text() string {
	return string(r.Body)
}

// Into stores the body into v. JSON bodies are unmarshalled, text bodies are
// assigned to a *string (or unmarshalled when they hold valid JSON anyway),
// empty bodies leave v untouched.
func (r *Result) Into(v any) error {
	if v == nil {
		return nil
	}

	switch r.Kind {
	case BodyJSON:
		if err := json.Unmarshal(r.Body, v); err != nil {
			return &apierr.DecodeError{ContentType: r.ContentType, Err: err}
		}
	case BodyText:
		if s, ok := v.(*string); ok {
			*s = r.Text()
			return nil
		}
		if !json.Valid(r.Body) {
			return &apierr.DecodeError{ContentType: r.ContentType, Err: errNotText}
		}
		if err := json.Unmarshal(r.Body, v); err != nil {
			return &apierr.DecodeError{ContentType: r.ContentType, Err: err}
		}
	}

	return nil
}

// Decode classifies a response. The body is read fully, closing it is up
// to the caller.
func Decode(resp *http.Response) (*Result, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := apierr.ReasonPhrase(resp.StatusCode, resp.Status)
		return nil, apierr.NewResponseError(resp.StatusCode, reason, contentType, string(body))
	}

	res := &Result{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}

	switch {
	case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusResetContent:
		res.Kind = BodyEmpty
		res.Body = nil
	case apierr.IsJSON(contentType):
		if !json.Valid(body) {
			return nil, &apierr.DecodeError{ContentType: contentType, Err: errors.New("invalid JSON")}
		}
		res.Kind = BodyJSON
	default:
		res.Kind = BodyText
	}

	return res, nil
}
