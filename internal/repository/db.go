package repository

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/inkwell-blog/inkwell/internal/cache"
	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/util"
	"github.com/inkwell-blog/inkwell/internal/util/compression"
)

type DBPostRepository struct { // implements PostRepository
	postsCache       *cache.Cache[string, *model.Post]
	postsCacheSorted []model.Post

	reloadNotifier   func(model.PostID)
	lastModifiedTime *time.Time // Track the latest modification time

	db         db.DB
	compressor compression.Compressor
}

func NewDBPostRepository(database db.DB, compressor compression.Compressor) *DBPostRepository {
	return &DBPostRepository{
		postsCache: cache.NewCache[string, *model.Post](),

		db:         database,
		compressor: compressor,
	}
}

func (r *DBPostRepository) Init() {
	posts, postMap, err := r.GetPosts()
	if err != nil {
		repoLogger.Fatal().Err(err).Msg("Error initializing posts")
	}

	r.postsCacheSorted = posts
	r.postsCache.SetTo(postMap)

	go r.ReloadPosts()
}

func (r *DBPostRepository) GetLatestModifiedTime() (*time.Time, error) {
	var latestTimeStr sql.NullString
	row := r.db.QueryRow(`SELECT MAX(modified_at) FROM drafts WHERE status = ?`, model.StatusPublished)
	err := row.Scan(&latestTimeStr)
	if err != nil {
		return nil, fmt.Errorf("error scanning latest modified time: %w", err)
	}

	if !latestTimeStr.Valid {
		return nil, nil // It was NULL, so no posts or no valid timestamps.
	}

	// The go-sqlite3 driver returns a string for MAX(), so we must parse it.
	// It can be in a format with a space separator.
	timeFormats := []string{
		"2006-01-02 15:04:05.999999999-07:00", // Space separator with timezone
		time.RFC3339Nano,                      // 'T' separator with timezone
		time.RFC3339,                          // 'T' separator, no nanos
	}

	var latestTime time.Time
	var parseErr error
	for _, format := range timeFormats {
		latestTime, parseErr = time.Parse(format, latestTimeStr.String)
		if parseErr == nil {
			return &latestTime, nil
		}
	}

	return nil, fmt.Errorf("error parsing latest modified time '%s' with any known format: %w", latestTimeStr.String, parseErr)
}

// GetPosts loads every published draft. Unpublished drafts never reach the
// reader-facing cache.
func (r *DBPostRepository) GetPosts() ([]model.Post, map[string]*model.Post, error) {
	rows, err := r.db.Query(
		`SELECT id, title, body, body_hash, tags, image_ref, created_at, modified_at, owner_id FROM drafts WHERE status = ?`,
		model.StatusPublished,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	postMap := make(map[string]*model.Post)
	var latestModTime *time.Time

	for rows.Next() {
		var post model.Post
		var compressed []byte
		var tags string

		err := rows.Scan(&post.ID, &post.Title, &compressed, &post.MDContentHash, &tags,
			&post.ImageRef, &post.CreatedDate, &post.ModifiedDate, &post.Owner)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning post: %w", err)
		}

		// Track the latest modification time
		if latestModTime == nil || post.ModifiedDate.After(*latestModTime) {
			latestModTime = &post.ModifiedDate
		}

		content, err := r.compressor.Decompress(compressed)
		if err != nil {
			return nil, nil, fmt.Errorf("error decompressing content: %w", err)
		}
		post.Markdown = content
		post.Tags = util.ParseTagList(tags)

		posts = append(posts, post)
		postMap[string(post.ID)] = &post
	}

	// Update our tracked modification time
	r.lastModifiedTime = latestModTime

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return -a.ModifiedDate.Compare(b.ModifiedDate)
	})

	return posts, postMap, nil
}

func (r *DBPostRepository) GetPostList() []model.Post {
	return r.postsCacheSorted
}

func (r *DBPostRepository) ReadPost(id model.PostID) (*model.Post, error) {
	post, ok := r.postsCache.Get(string(id))
	if !ok {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return post, nil
}

func (r *DBPostRepository) ReloadPosts() {
	sleepFunc := func() {
		time.Sleep(10 * time.Second)
	}

	for {
		// First, do a lightweight check to see if anything has changed
		latestTime, err := r.GetLatestModifiedTime()
		if err != nil {
			repoLogger.Error().Err(err).Msg("Error checking latest modification time")
			sleepFunc()
			continue
		}

		// If we have a cached time and nothing has changed, skip
		if r.lastModifiedTime != nil && latestTime != nil && !latestTime.After(*r.lastModifiedTime) {
			sleepFunc()
			continue
		}

		repoLogger.Debug().Msg("Posts may have changed, performing full reload")

		posts, postMap, err := r.GetPosts()
		if err != nil {
			repoLogger.Error().Err(err).Msg("Error reloading posts")
			sleepFunc()
			continue
		}

		// Compare content hashes against the current cache to decide whether
		// anything actually changed and who needs a reload notification.
		hasChanges := false

		cachedPosts := make(map[string]*model.Post)
		for i := range r.postsCacheSorted {
			cachedPosts[string(r.postsCacheSorted[i].ID)] = &r.postsCacheSorted[i]
		}

		for _, newPost := range posts {
			if cachedPost, exists := cachedPosts[string(newPost.ID)]; exists {
				if newPost.MDContentHash != cachedPost.MDContentHash {
					hasChanges = true
					repoLogger.Info().
						Str("post_id", string(newPost.ID)).
						Str("title", newPost.Title).
						Msg("Post content changed, reloading")
					if r.reloadNotifier != nil {
						go r.reloadNotifier(newPost.ID)
					}
				}
			} else {
				hasChanges = true
				repoLogger.Info().
					Str("post_id", string(newPost.ID)).
					Str("title", newPost.Title).
					Msg("New post detected")
			}
		}

		if len(posts) != len(r.postsCacheSorted) {
			hasChanges = true
			repoLogger.Info().Msg("Number of posts changed")
		}

		if hasChanges {
			r.postsCacheSorted = posts
			r.postsCache.SetTo(postMap)
		}

		sleepFunc()
	}
}

func (r *DBPostRepository) SetReloadNotifier(notifier func(model.PostID)) {
	r.reloadNotifier = notifier
}
