// Package repository serves the reader-facing view of published posts.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/model"
)

type PostRepository interface {
	Init()
	GetPosts() ([]model.Post, map[string]*model.Post, error)
	GetPostList() []model.Post
	ReadPost(id model.PostID) (*model.Post, error)

	// SetReloadNotifier sets a function that will be called when a post's
	// content changes on disk.
	SetReloadNotifier(notifier func(model.PostID))
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
