// Package auth resolves the acting user's identity from the HTTP session.
//
// Resolution is asynchronous from the editor's point of view: a request may
// arrive before the identity is known, and an unresolved identity is never
// treated as authorized. Ownership itself is checked by the editor guard and
// re-checked by the draft store; this package only answers "who is acting".
package auth

import (
	"net/http"

	"github.com/inkwell-blog/inkwell/internal/model"
)

type Provider interface {
	// WithHeaderAuthorization wraps a handler with session verification.
	WithHeaderAuthorization() func(http.Handler) http.Handler

	// UserIDFromSession resolves the acting identity for a request. Returns
	// an error (and the zero UserID) while the identity cannot be resolved.
	UserIDFromSession(r *http.Request) (model.UserID, error)

	// HandleWebhookUser keeps the local users table in sync with the
	// identity provider.
	HandleWebhookUser(w http.ResponseWriter, r *http.Request)
}
