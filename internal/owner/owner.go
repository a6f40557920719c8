// Package owner identifies who a request is for.
//
// This is identification, not authentication: the client says who it is in
// the X-User-ID header and the server believes it. Requests without the
// header belong to the configured default owner, so a single-user setup
// works with no client changes.
package owner

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/nutrition-tracker/internal/apperror"
)

// Header carries the caller's owner id.
const Header = "X-User-ID"

// MaxLength bounds the header value; owner ids end up in storage keys.
const MaxLength = 128

// contextKey is unexported so no other package can read or overwrite the
// owner stored in a request context.
type contextKey string

const ownerKey contextKey = "owner"

// Middleware stores the request's owner in its context.
// A blank header falls back to defaultOwner; an oversized one is rejected.
func Middleware(defaultOwner string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(Header))
			if id == "" {
				id = defaultOwner
			}
			if len(id) > MaxLength {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(apperror.Response{
					Error:   apperror.KindValidation,
					Message: Header + " header is too long",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ownerKey, id)
}

// FromContext returns the owner stored by Middleware, or "" if there is none.
// Services reject an empty owner, so a route mounted without the middleware
// fails loudly instead of writing to a shared bucket.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey).(string)
	return id
}
