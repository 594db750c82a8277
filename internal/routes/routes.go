// Package routes defines HTTP route patterns for the application.
package routes

const (
	// Reader-facing
	Root      = "GET /"
	Posts     = "GET /posts/{id}"
	PostsList = "GET /api/posts"
	PostRead  = "GET /api/posts/{id}"

	// Editor sessions
	SessionOpen   = "POST /api/editor/sessions"
	SessionFields = "PATCH /api/editor/sessions/{token}"
	SessionSave   = "POST /api/editor/sessions/{token}/save"
	SessionPub    = "POST /api/editor/sessions/{token}/publish"
	SessionDelete = "DELETE /api/editor/sessions/{token}/draft"
	SessionState  = "GET /api/editor/sessions/{token}"
	SessionClose  = "DELETE /api/editor/sessions/{token}"

	// Drafts
	MyDrafts = "GET /api/drafts"

	// Uploads
	Images      = "POST /api/images"
	UploadsPath = "/uploads/"

	// SSE
	Events = "GET /events"

	// Auth
	UserWebhook = "POST /webhooks/user"
)
