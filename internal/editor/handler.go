package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/assets"
	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/config"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/repository/draft"
	"github.com/inkwell-blog/inkwell/internal/sse"
)

// Handler adapts HTTP requests onto editor sessions. It resolves the acting
// identity per request and feeds it into the session, so a stolen session
// token still fails the ownership guard.
type Handler struct {
	registry *Registry
	opts     Options
	uploads  *assets.Store
	auth     auth.Provider
	clients  *sse.Clients
	log      zerolog.Logger
}

func NewHandler(opts Options, uploads *assets.Store, authProvider auth.Provider, clients *sse.Clients, log zerolog.Logger) *Handler {
	opts.Notify = func(id model.DraftID, event string) {
		clients.Broadcast(id, event)
	}

	return &Handler{
		registry: NewRegistry(),
		opts:     opts,
		uploads:  uploads,
		auth:     authProvider,
		clients:  clients,
		log:      log,
	}
}

type sessionResponse struct {
	Token     string       `json:"token"`
	State     string       `json:"state"`
	Draft     draftPayload `json:"draft"`
	LastError string       `json:"lastError,omitempty"`
}

type draftPayload struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	ImageRef string   `json:"imageRef,omitempty"`
	Status   string   `json:"status"`
}

func toPayload(d model.Draft) draftPayload {
	return draftPayload{
		ID:       string(d.ID),
		Title:    d.Title,
		Body:     d.Body,
		Tags:     d.Tags,
		ImageRef: d.ImageRef,
		Status:   string(d.Status),
	}
}

// OpenSession creates a session: blank for a new post, hydrated when the
// request names a draft ID. Hydration failures abandon the editor outright.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.UserIDFromSession(r)
	if err != nil {
		// Identity still resolving. A blank session may open (the guard
		// passes once identity arrives); an existing draft may not.
		actor = ""
	}

	var req struct {
		DraftID string `json:"draftId"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var sess *Session
	if req.DraftID != "" {
		sess, err = Open(r.Context(), h.opts, actor, model.DraftID(req.DraftID))
		if err != nil {
			h.writeError(w, err, config.ErrNotAuthorizedSave)
			return
		}
	} else {
		sess = New(h.opts, actor)
	}

	token := h.registry.Add(sess)
	h.writeSession(w, token, sess)
}

// UpdateFields applies partial field mutations to the session draft.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Title    *string   `json:"title"`
		Body     *string   `json:"body"`
		Tags     *[]string `json:"tags"`
		ImageRef *string   `json:"imageRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		sess.SetTitle(*req.Title)
	}
	if req.Body != nil {
		sess.SetBody(*req.Body)
	}
	if req.Tags != nil {
		sess.SetTags(*req.Tags)
	}
	if req.ImageRef != nil {
		sess.SetImageRef(*req.ImageRef)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveNow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.SaveNow(r.Context()); err != nil {
		h.writeError(w, err, config.ErrNotAuthorizedSave)
		return
	}

	h.writeSession(w, r.PathValue("token"), sess)
}

func (h *Handler) PublishNow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.PublishNow(r.Context()); err != nil {
		h.writeError(w, err, config.ErrNotAuthorizedPublish)
		return
	}

	h.writeSession(w, r.PathValue("token"), sess)
}

func (h *Handler) DeleteNow(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.DeleteNow(r.Context()); err != nil {
		h.writeError(w, err, config.ErrNotAuthorizedDelete)
		return
	}

	h.registry.Remove(r.PathValue("token"))
	w.WriteHeader(http.StatusNoContent)
}

// SessionState reports the observable scheduler state for "saving…" UI.
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	sess, ok := h.registry.Get(token)
	if !ok {
		http.NotFound(w, r)
		return
	}

	h.writeSession(w, token, sess)
}

// CloseSession is the dispose entry point the presentation layer must call
// on teardown.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.registry.Remove(r.PathValue("token"))
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage is the fire-and-forget image side-channel. It does not touch
// any session: the client writes the returned reference into the draft via
// UpdateFields.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.UserIDFromSession(r); err != nil {
		http.Error(w, config.ErrInternalServerErr, http.StatusUnauthorized)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ref, err := h.uploads.Put(r.Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, assets.ErrPayloadTooLarge):
			http.Error(w, config.ErrUploadTooLarge, http.StatusRequestEntityTooLarge)
		case errors.Is(err, assets.ErrUnsupportedType):
			http.Error(w, config.ErrUploadWrongType, http.StatusUnsupportedMediaType)
		default:
			h.log.Error().Err(err).Msg("Upload failed")
			http.Error(w, fmt.Sprintf(config.ErrUploadFailedFmt, err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	json.NewEncoder(w).Encode(map[string]string{"imageUrl": ref})
}

// ServeEvents streams save-state events for a draft over SSE.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	draftID := r.URL.Query().Get("draft")
	if draftID == "" {
		http.Error(w, "draft required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")

	client := &sse.Client{
		Msg:     make(chan string, 8),
		DraftID: model.DraftID(draftID),
	}
	h.clients.Add(client)
	defer h.clients.Delete(client)

	for {
		select {
		case msg, open := <-client.Msg:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// session resolves the token and refreshes the acting identity on the
// session before any action runs.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := h.registry.Get(r.PathValue("token"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}

	if actor, err := h.auth.UserIDFromSession(r); err == nil {
		sess.ResolveIdentity(actor)
	}

	return sess, true
}

func (h *Handler) writeSession(w http.ResponseWriter, token string, sess *Session) {
	resp := sessionResponse{
		Token: token,
		State: sess.State().String(),
		Draft: toPayload(sess.Draft()),
	}
	if err := sess.LastError(); err != nil {
		resp.LastError = err.Error()
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	json.NewEncoder(w).Encode(resp)
}

// writeError maps editor and store failures onto HTTP responses. authMsg is
// the action-specific denial shown for authorization failures.
func (h *Handler) writeError(w http.ResponseWriter, err error, authMsg string) {
	switch {
	case errors.Is(err, draft.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, draft.ErrNotAuthorized), errors.Is(err, draft.ErrUnauthenticated):
		http.Error(w, authMsg, http.StatusUnauthorized)
	case errors.Is(err, ErrEmptyTitle):
		http.Error(w, config.ErrTitleRequired, http.StatusBadRequest)
	case errors.Is(err, ErrEmptyBody), errors.Is(err, draft.ErrValidation):
		http.Error(w, config.ErrBodyRequired, http.StatusBadRequest)
	case errors.Is(err, ErrDisposed):
		http.Error(w, "Session closed", http.StatusGone)
	default:
		h.log.Error().Err(err).Msg("Editor request failed")
		http.Error(w, config.ErrInternalServerErr, http.StatusInternalServerError)
	}
}
