package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"

	CTypeHTML = "text/html"
	CTypeJSON = "application/json"

	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieSession = "__session"
)
