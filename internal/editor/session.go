// Package editor owns the draft-editing session: the mutable draft fields,
// the autosave scheduling that decides when edits reach the store, and the
// ownership guard consulted before every mutating action.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/repository/draft"
)

// State is the session lifecycle. Pending is exclusive: while a save is in
// flight no second save may start, and triggers that fire meanwhile coalesce
// into at most one follow-up attempt.
type State int

const (
	StateIdle State = iota
	StatePending
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

const (
	DefaultDebounce = 5 * time.Second
	DefaultInterval = 30 * time.Second
)

// Save-state events broadcast to the presentation layer.
const (
	EventSaving     = "saving"
	EventSaved      = "saved"
	EventSaveFailed = "save-failed"
)

var (
	ErrDisposed      = errors.New("editor session disposed")
	ErrNotAuthorized = errors.New("not the draft owner")
	ErrEmptyTitle    = errors.New("a title is required")
	ErrEmptyBody     = errors.New("the body is empty")
)

// Options configures a session. Zero values fall back to the real clock,
// the default timings and the render-based markup stripper; Store is
// required.
type Options struct {
	Store draft.Store

	Clock    Clock
	Debounce time.Duration
	Interval time.Duration

	Logger zerolog.Logger

	// Notify, if set, receives save-state events for a persisted draft.
	Notify func(model.DraftID, string)

	// Strip maps a body to its markup-free text for emptiness checks.
	Strip func(string) string
}

func (o *Options) withDefaults() {
	if o.Clock == nil {
		o.Clock = NewClock()
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Strip == nil {
		o.Strip = render.StripMarkup
	}
}

// Session is one open editor. All fields are guarded by mu; the only
// suspension points are the store calls, which run outside the lock while
// the session is Pending.
type Session struct {
	mu   sync.Mutex
	cond *sync.Cond

	draft model.Draft
	actor model.UserID

	state  State
	queued bool // a trigger fired while Pending; run one follow-up

	debounce Timer
	periodic Timer

	opts    Options
	lastErr error
}

// New starts a session for a brand-new, never-persisted draft. actor may be
// the zero value while identity is still resolving; no save will succeed
// until ResolveIdentity supplies one.
func New(opts Options, actor model.UserID) *Session {
	opts.withDefaults()

	s := &Session{
		draft: model.Draft{Status: model.StatusDraft},
		actor: actor,
		opts:  opts,
	}
	s.cond = sync.NewCond(&s.mu)

	s.mu.Lock()
	s.ensurePeriodicLocked()
	s.mu.Unlock()

	return s
}

// Open hydrates a session from a persisted draft. Fetch failures
// (draft.ErrNotFound, draft.ErrNotAuthorized) propagate and no session is
// created: the caller must abandon the editor, and no timer ever arms.
func Open(ctx context.Context, opts Options, actor model.UserID, id model.DraftID) (*Session, error) {
	opts.withDefaults()

	d, err := opts.Store.Fetch(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	s := &Session{
		draft: *d,
		actor: actor,
		opts:  opts,
	}
	s.cond = sync.NewCond(&s.mu)

	s.mu.Lock()
	s.ensurePeriodicLocked()
	s.mu.Unlock()

	return s, nil
}

// ResolveIdentity supplies the acting identity once (or whenever) the auth
// layer resolves it. Identity is always passed in explicitly, never read
// from ambient state.
func (s *Session) ResolveIdentity(actor model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		return
	}
	s.actor = actor
	s.ensurePeriodicLocked()
}

func (s *Session) SetTitle(title string) {
	s.mutate(func(d *model.Draft) { d.Title = title }, true)
}

func (s *Session) SetBody(body string) {
	s.mutate(func(d *model.Draft) { d.Body = body }, true)
}

func (s *Session) SetTags(tags []string) {
	s.mutate(func(d *model.Draft) { d.Tags = append([]string(nil), tags...) }, true)
}

// SetImageRef records (or clears) the uploaded asset reference. Not a
// debounce trigger: the reference is picked up by the next save, matching
// the upload side-channel's fire-and-forget contract.
func (s *Session) SetImageRef(ref string) {
	s.mutate(func(d *model.Draft) { d.ImageRef = ref }, false)
}

func (s *Session) mutate(apply func(*model.Draft), bumpDebounce bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		return
	}

	apply(&s.draft)
	s.draft.ModifiedDate = s.opts.Clock.Now()

	if bumpDebounce {
		s.bumpDebounceLocked()
	}
	s.ensurePeriodicLocked()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the most recent save error, nil after a success.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Draft returns a snapshot of the draft under edit.
func (s *Session) Draft() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SaveNow is the explicit manual save. Unlike timer saves it surfaces
// authorization and validation failures.
func (s *Session) SaveNow(ctx context.Context) error {
	return s.explicitSave(ctx, false)
}

// PublishNow saves with status forced to published.
func (s *Session) PublishNow(ctx context.Context) error {
	return s.explicitSave(ctx, true)
}

// DeleteNow issues a single destructive call gated only by the guard, then
// disposes the session. A never-persisted draft has nothing to delete; the
// session is simply torn down.
func (s *Session) DeleteNow(ctx context.Context) error {
	s.mu.Lock()
	for s.state == StatePending {
		s.cond.Wait()
	}
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if !CanMutate(s.actor, s.draft.Owner, s.draft.Persisted()) {
		s.mu.Unlock()
		return ErrNotAuthorized
	}
	actor := s.actor
	id := s.draft.ID
	s.mu.Unlock()

	if id != "" {
		if err := s.opts.Store.Delete(ctx, actor, id); err != nil {
			return err
		}
	}

	s.Dispose()
	return nil
}

// Dispose cancels both timers and terminates the session. A save already in
// flight completes but its result is discarded.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		return
	}

	if s.debounce != nil {
		s.debounce.Stop()
	}
	if s.periodic != nil {
		s.periodic.Stop()
	}

	s.state = StateDisposed
	s.cond.Broadcast()
}

// bumpDebounceLocked restarts the short timer: a save fires once the user
// has stopped editing for the debounce delay.
func (s *Session) bumpDebounceLocked() {
	if s.debounce == nil {
		s.debounce = s.opts.Clock.AfterFunc(s.opts.Debounce, s.onDebounce)
		return
	}
	s.debounce.Reset(s.opts.Debounce)
}

// ensurePeriodicLocked arms the long-period safety net once the session is
// eligible: draft loaded, identity resolved, authorized. It keeps firing
// even if authorization later goes stale; attempts then no-op silently.
func (s *Session) ensurePeriodicLocked() {
	if s.state == StateDisposed || s.periodic != nil {
		return
	}
	if !CanMutate(s.actor, s.draft.Owner, s.draft.Persisted()) {
		return
	}
	s.periodic = s.opts.Clock.AfterFunc(s.opts.Interval, s.onPeriodic)
}

func (s *Session) onDebounce() {
	s.autoSave()
}

func (s *Session) onPeriodic() {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return
	}
	s.periodic.Reset(s.opts.Interval)
	s.mu.Unlock()

	s.autoSave()
}

// autoSave is the timer-driven attempt. Every failure mode is silent: a
// disposed session, a stale authorization, a half-edited draft with a blank
// title, or a save already in flight (which queues one coalesced follow-up).
func (s *Session) autoSave() {
	s.mu.Lock()
	switch s.state {
	case StateDisposed:
		s.mu.Unlock()
		return
	case StatePending:
		s.queued = true
		s.mu.Unlock()
		return
	}

	if !CanMutate(s.actor, s.draft.Owner, s.draft.Persisted()) {
		s.mu.Unlock()
		return
	}
	if !s.draft.HasTitle() || s.opts.Strip(s.draft.Body) == "" {
		s.mu.Unlock()
		return
	}

	actor, snapshot, creating := s.beginSaveLocked(false)
	s.mu.Unlock()

	if err := s.finishSave(context.Background(), actor, snapshot, creating); err != nil {
		s.opts.Logger.Warn().Err(err).
			Str("draft_id", string(snapshot.ID)).
			Msg("Autosave failed")
	}
}

func (s *Session) explicitSave(ctx context.Context, publish bool) error {
	s.mu.Lock()
	for s.state == StatePending {
		s.cond.Wait()
	}
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrDisposed
	}

	if !CanMutate(s.actor, s.draft.Owner, s.draft.Persisted()) {
		s.mu.Unlock()
		return ErrNotAuthorized
	}
	if !s.draft.HasTitle() {
		s.mu.Unlock()
		return ErrEmptyTitle
	}
	if s.opts.Strip(s.draft.Body) == "" {
		s.mu.Unlock()
		return ErrEmptyBody
	}

	actor, snapshot, creating := s.beginSaveLocked(publish)
	s.mu.Unlock()

	return s.finishSave(ctx, actor, snapshot, creating)
}

// beginSaveLocked transitions Idle -> Pending and snapshots the draft for
// the persistence call. Status is explicit per save: publish forces
// published, otherwise the current status is preserved so an autosave never
// demotes a published post.
func (s *Session) beginSaveLocked(publish bool) (model.UserID, model.Draft, bool) {
	snapshot := s.draft.Clone()
	if publish {
		snapshot.Status = model.StatusPublished
	} else if snapshot.Status != model.StatusPublished {
		snapshot.Status = model.StatusDraft
	}

	creating := !s.draft.Persisted()
	s.state = StatePending
	s.notifyLocked(EventSaving)

	return s.actor, snapshot, creating
}

// finishSave issues the store call and folds the result back into the
// session. The creating save is the only non-idempotent step: Pending
// exclusivity guarantees there is never a second one.
func (s *Session) finishSave(ctx context.Context, actor model.UserID, snapshot model.Draft, creating bool) error {
	var saveErr error
	var id model.DraftID

	if creating {
		id, saveErr = s.opts.Store.Create(ctx, actor, &snapshot)
	} else {
		saveErr = s.opts.Store.Update(ctx, actor, &snapshot)
	}

	s.mu.Lock()
	if s.state == StateDisposed {
		// Teardown won the race; discard the result.
		s.mu.Unlock()
		return saveErr
	}

	s.state = StateIdle

	if saveErr == nil {
		if creating {
			s.draft.ID = id
			s.draft.Owner = actor
		}
		s.draft.Status = snapshot.Status
		s.draft.LastSyncedAt = s.opts.Clock.Now()
		s.lastErr = nil
		s.notifyLocked(EventSaved)
	} else {
		s.lastErr = saveErr
		s.notifyLocked(EventSaveFailed)
	}

	queued := s.queued
	s.queued = false
	s.cond.Broadcast()
	s.mu.Unlock()

	if queued {
		s.autoSave()
	}

	return saveErr
}

func (s *Session) notifyLocked(event string) {
	if s.opts.Notify == nil || s.draft.ID == "" {
		return
	}
	s.opts.Notify(s.draft.ID, event)
}
