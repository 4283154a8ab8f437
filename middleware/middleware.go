// Package middleware fills JSON request bodies with defaults before they reach
// a handler. Framework adapters live in the echo/ and gin/ sub-modules.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/i18n"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db di.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (di.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(di.Decoded[T])
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Nesting is capped at 64 levels
// - Bodies are capped at 1 MiB
func DefaultParseOpt() di.ParseOpt {
	return di.ParseOpt{
		Strictness: di.Strictness{OnDuplicateKey: di.Error},
		MaxDepth:   64,
		MaxBytes:   1 << 20,
	}
}

// IssuePayload is the JSON shape of one Issue in error responses.
type IssuePayload struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []di.Issue) map[string]any {
	out := make([]IssuePayload, 0, len(issues))
	for _, it := range issues {
		out = append(out, IssuePayload{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint})
	}
	return map[string]any{"issues": out}
}

// ApplyRequest decodes the JSON body of r, applies s to it, and returns a
// copy of r whose body is the filled document and whose context carries the
// Decoded[any] result. An empty body counts as an absent argument. With
// opt.MaxBytes set, at most MaxBytes+1 bytes are read and a longer body fails
// with a truncated issue.
func ApplyRequest(r *http.Request, s di.Scheme, opt di.ParseOpt) (*http.Request, error) {
	var arg any
	if r.Body != nil && r.Body != http.NoBody {
		body, err := readBody(r.Body, opt.MaxBytes)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if arg, err = di.DecodeJSON(di.JSONBytes(body), opt); err != nil {
				return nil, err
			}
		}
	}
	dm, err := di.ApplyArgWithMeta(arg, s)
	if err != nil {
		return nil, err
	}
	filled, err := json.Marshal(dm.Value)
	if err != nil {
		return nil, err
	}
	out := r.WithContext(ContextWithDecoded(r.Context(), dm))
	out.Body = io.NopCloser(bytes.NewReader(filled))
	out.ContentLength = int64(len(filled))
	out.Header = r.Header.Clone()
	out.Header.Set("Content-Length", strconv.Itoa(len(filled)))
	return out, nil
}

func readBody(body io.ReadCloser, limit int64) ([]byte, error) {
	defer body.Close()
	if limit <= 0 {
		return io.ReadAll(body)
	}
	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, di.Issues{{
			Path:    "/",
			Code:    di.CodeTruncated,
			Message: i18n.T(di.CodeTruncated, nil),
			Hint:    "request body exceeds " + strconv.FormatInt(limit, 10) + " bytes",
		}}
	}
	return b, nil
}

// Defaults returns a handler that fills request bodies from s using
// DefaultParseOpt before calling next. Failures answer 400 with ErrorPayload.
func Defaults(s di.Scheme, next http.Handler) http.Handler {
	return DefaultsWithOpt(s, DefaultParseOpt())(next)
}

// DefaultsWithOpt is Defaults with explicit decoding options, shaped as a
// router middleware.
func DefaultsWithOpt(s di.Scheme, opt di.ParseOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, err := ApplyRequest(r, s, opt)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// WriteError answers 400 with the Issues carried by err, or with a plain
// {"error": ...} object for other errors.
func WriteError(w http.ResponseWriter, err error) {
	var payload any = map[string]any{"error": err.Error()}
	var iss di.Issues
	if errors.As(err, &iss) {
		payload = ErrorPayload(iss)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(payload)
}
