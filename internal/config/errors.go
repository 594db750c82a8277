package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"
	ErrGetPostsFmt           = "Failed to get posts: %v"

	// Editor errors, shown to the user on explicit actions only
	ErrNotAuthorizedSave    = "You are not authorized to save this post"
	ErrNotAuthorizedPublish = "You are not authorized to publish this post"
	ErrNotAuthorizedDelete  = "You are not authorized to delete this post"
	ErrTitleRequired        = "A title is required"
	ErrBodyRequired         = "The post body is empty"

	// Upload errors
	ErrUploadTooLarge    = "Image exceeds the maximum upload size"
	ErrUploadWrongType   = "Only image uploads are accepted"
	ErrUploadFailedFmt   = "Failed to store upload: %v"
	ErrInternalServerErr = "Internal server error"
)
