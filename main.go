package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/assets"
	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/config"
	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/editor"
	"github.com/inkwell-blog/inkwell/internal/logger"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/repository"
	"github.com/inkwell-blog/inkwell/internal/repository/draft"
	"github.com/inkwell-blog/inkwell/internal/routes"
	"github.com/inkwell-blog/inkwell/internal/sse"
	"github.com/inkwell-blog/inkwell/internal/util/compression"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: production sets real env vars.
		os.Stderr.WriteString("No .env file loaded\n")
	}

	configPath := os.Getenv("INKWELL_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level)
	config.SetLogger(log)
	db.SetLogger(log)
	repository.SetLogger(log)
	render.SetLogger(log)
	draft.SetLogger(log)

	compressor, err := compression.ForName(cfg.Content.Compression)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid compression codec")
	}

	database := db.NewSQLite(envOr("INKWELL_DB", "./database.db"))
	if err := database.Init(); err != nil {
		log.Fatal().Err(err).Msgf(config.ErrInitializeDatabaseFmt, err)
	}
	defer database.Close()

	clients := sse.NewClients()

	postRepository := repository.NewDBPostRepository(database, compressor)
	postRepository.SetReloadNotifier(func(id model.PostID) {
		clients.Broadcast(id, "reload")
	})
	postRepository.Init()

	draftStore := draft.NewSQLStore(database, compressor)

	authProvider := auth.NewClerkProvider(os.Getenv("CLERK_API"), database, log)

	uploadBackend, uploadsDir := newUploadBackend(cfg, log)
	uploads := assets.NewStore(uploadBackend, cfg.Uploads.MaxBytes, log)

	editorHandler := editor.NewHandler(editor.Options{
		Store:    draftStore,
		Debounce: cfg.Editor.Debounce(),
		Interval: cfg.Editor.Interval(),
		Logger:   log,
	}, uploads, authProvider, clients, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	// Reader-facing: published posts only.
	mux.HandleFunc(routes.PostsList, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, postRepository.GetPostList())
	})

	mux.HandleFunc(routes.PostRead, func(w http.ResponseWriter, r *http.Request) {
		post, err := postRepository.ReadPost(model.PostID(r.PathValue("id")))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		rendered := *post
		rendered.Content = template.HTML(render.RenderMarkdownCached(post.Markdown, post.MDContentHash, cfg.Content.SyntaxStyle))
		writeJSON(w, rendered)
	})

	// Author-facing: everything below resolves and requires identity.
	mux.HandleFunc(routes.MyDrafts, func(w http.ResponseWriter, r *http.Request) {
		actor, err := authProvider.UserIDFromSession(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		drafts, err := draftStore.ListByOwner(r.Context(), actor)
		if err != nil {
			log.Error().Err(err).Msg("Error listing drafts")
			http.Error(w, config.ErrInternalServerErr, http.StatusInternalServerError)
			return
		}
		writeJSON(w, drafts)
	})

	mux.HandleFunc(routes.SessionOpen, editorHandler.OpenSession)
	mux.HandleFunc(routes.SessionFields, editorHandler.UpdateFields)
	mux.HandleFunc(routes.SessionSave, editorHandler.SaveNow)
	mux.HandleFunc(routes.SessionPub, editorHandler.PublishNow)
	mux.HandleFunc(routes.SessionDelete, editorHandler.DeleteNow)
	mux.HandleFunc(routes.SessionState, editorHandler.SessionState)
	mux.HandleFunc(routes.SessionClose, editorHandler.CloseSession)

	mux.HandleFunc(routes.Images, editorHandler.UploadImage)
	mux.HandleFunc(routes.Events, editorHandler.ServeEvents)

	mux.HandleFunc(routes.UserWebhook, authProvider.HandleWebhookUser)

	if uploadsDir != "" {
		mux.Handle(routes.UploadsPath, http.StripPrefix(routes.UploadsPath, http.FileServer(http.Dir(uploadsDir))))
	}

	var handler http.Handler = mux
	if cfg.Auth.Enabled {
		handler = authProvider.WithHeaderAuthorization()(mux)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("Server starting")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newUploadBackend(cfg *config.Config, log zerolog.Logger) (assets.Backend, string) {
	if cfg.Uploads.Backend == "s3" {
		backend := assets.NewS3Backend(
			os.Getenv("S3_ACCESS_KEY_ID"),
			os.Getenv("S3_ACCESS_KEY_SECRET"),
			cfg.Uploads.S3.Endpoint,
			cfg.Uploads.S3.Bucket,
			log,
		)
		return backend, ""
	}

	backend, err := assets.NewFSBackend(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing uploads directory")
	}
	return backend, backend.Dir()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, config.ErrInternalServerErr, http.StatusInternalServerError)
	}
}
