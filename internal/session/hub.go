// Package session hosts drawings for remote clients. Each session owns one
// sketch.Manager; the Hub serializes every access to it, persists it to a
// snapshot store and pushes re-rendered frames to connected websocket
// clients after each change.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/sketchpad/internal/render"
	"github.com/inamate/sketchpad/internal/sketch"
	"github.com/inamate/sketchpad/internal/store"
	"github.com/inamate/sketchpad/internal/typeid"
)

var ErrNotFound = errors.New("session not found")

const minSweep = time.Second

type Session struct {
	id       string
	mu       sync.Mutex
	manager  *sketch.Manager
	dirty    bool
	closed   bool
	lastUsed time.Time
	clients  map[string]*Client // clientID -> client
}

type Option func(*Hub)

// WithIdleTimeout sets how long a session without clients stays in memory
// after its last use. Zero keeps sessions forever.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idle = d }
}

// WithRestore makes lookups of unknown sessions load their latest snapshot.
func WithRestore(on bool) Option {
	return func(h *Hub) { h.restore = on }
}

// WithManagerOptions sets the options of every new drawing.
func WithManagerOptions(opts ...sketch.Option) Option {
	return func(h *Hub) { h.managerOpts = opts }
}

// WithHighlightOnMove renders move gestures with the tail highlighted.
func WithHighlightOnMove(on bool) Option {
	return func(h *Hub) { h.highlightOnMove = on }
}

// WithShowUndone renders the dimmed redo history under every frame.
func WithShowUndone(on bool) Option {
	return func(h *Hub) { h.showUndone = on }
}

// WithLoadClean clears the drawing before an SVG import.
func WithLoadClean(on bool) Option {
	return func(h *Hub) { h.loadClean = on }
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session
	store    store.Store

	idle            time.Duration
	restore         bool
	highlightOnMove bool
	showUndone      bool
	loadClean       bool
	managerOpts     []sketch.Option
	now             func() time.Time

	register   chan *Client
	unregister chan *Client
}

func NewHub(st store.Store, opts ...Option) *Hub {
	h := &Hub{
		sessions:   make(map[string]*Session),
		store:      st,
		now:        time.Now,
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run handles client registration and idle eviction until ctx is done, then
// saves every changed session.
func (h *Hub) Run(ctx context.Context) {
	var tick <-chan time.Time
	if h.idle > 0 {
		ticker := time.NewTicker(max(h.idle/4, minSweep))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-tick:
			h.evictIdle(ctx)
		case <-ctx.Done():
			// ctx is already cancelled; the final save gets its own deadline
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := h.SaveAll(saveCtx); err != nil {
				slog.Error("save sessions on shutdown", "error", err)
			}
			cancel()
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// --- Sessions ---

// Create starts an empty session and returns its id.
func (h *Hub) Create() string {
	id := typeid.NewSessionID()
	s := h.newSession(id, sketch.NewManager(h.managerOpts...))
	// Persisted on first eviction even if never touched
	s.dirty = true

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	slog.Info("session created", "session", id)
	return id
}

// Len returns the number of sessions in memory.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// View runs fn with exclusive access to the drawing of session id without
// marking it changed.
func (h *Hub) View(ctx context.Context, id string, fn func(*sketch.Manager) error) error {
	s, err := h.lock(ctx, id)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	return fn(s.manager)
}

// Do runs fn with exclusive access to the drawing of session id, then marks
// it changed and pushes a new frame to its clients. This happens even when
// fn fails, since fn may have changed the drawing before failing.
func (h *Hub) Do(ctx context.Context, id string, fn func(*sketch.Manager) error) error {
	return h.do(ctx, id, h.frameMode(), fn)
}

// Gesture applies one edit gesture to session id.
func (h *Hub) Gesture(ctx context.Context, id string, g Gesture) error {
	mode := h.frameMode()
	if h.highlightOnMove && g.moving() {
		mode = ModeHighlight
	}
	return h.do(ctx, id, mode, func(m *sketch.Manager) error {
		return Apply(m, g)
	})
}

// Import loads an SVG document into session id. A partial load still
// changes the drawing and returns an error wrapping sketch.ErrPartialLoad.
func (h *Hub) Import(ctx context.Context, id string, r io.Reader) error {
	return h.Do(ctx, id, func(m *sketch.Manager) error {
		if h.loadClean {
			m.Clear()
		}
		return m.Deserialize(r)
	})
}

// Save writes the drawing of session id to the store.
func (h *Hub) Save(ctx context.Context, id string) (*store.Snapshot, error) {
	s, err := h.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return h.saveLocked(ctx, s)
}

// Restore replaces the drawing of session id with its latest snapshot.
func (h *Hub) Restore(ctx context.Context, id string) (*store.Snapshot, error) {
	s, err := h.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	snap, err := h.store.Latest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := s.manager.RestoreSnapshot(bytes.NewReader(snap.Data)); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	s.dirty = false
	h.broadcastLocked(s, h.frameMode())

	slog.Info("session restored", "session", id, "version", snap.Version)
	return snap, nil
}

// SaveAll writes every changed session to the store.
func (h *Hub) SaveAll(ctx context.Context) error {
	var errs []error
	for _, s := range h.snapshotSessions() {
		s.mu.Lock()
		if s.dirty && !s.closed {
			if _, err := h.saveLocked(ctx, s); err != nil {
				errs = append(errs, err)
			}
		}
		s.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (h *Hub) do(ctx context.Context, id string, mode Mode, fn func(*sketch.Manager) error) error {
	s, err := h.lock(ctx, id)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	err = fn(s.manager)
	s.dirty = true
	h.broadcastLocked(s, mode)
	return err
}

func (h *Hub) frameMode() Mode {
	if h.showUndone {
		return ModeUndone
	}
	return ModePlain
}

func (h *Hub) newSession(id string, m *sketch.Manager) *Session {
	return &Session{
		id:       id,
		manager:  m,
		lastUsed: h.now(),
		clients:  make(map[string]*Client),
	}
}

// lock finds session id, loading it from the store when allowed, and
// returns it locked.
func (h *Hub) lock(ctx context.Context, id string) (*Session, error) {
	for {
		s, err := h.find(ctx, id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.closed {
			// Evicted between lookup and lock
			s.mu.Unlock()
			continue
		}
		s.lastUsed = h.now()
		return s, nil
	}
}

func (h *Hub) find(ctx context.Context, id string) (*Session, error) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		return s, nil
	}
	if !h.restore {
		return nil, ErrNotFound
	}

	snap, err := h.store.Latest(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	m := sketch.NewManager(h.managerOpts...)
	if err := m.RestoreSnapshot(bytes.NewReader(snap.Data)); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[id]; ok {
		return existing, nil
	}
	s = h.newSession(id, m)
	h.sessions[id] = s

	slog.Info("session reopened", "session", id, "version", snap.Version)
	return s, nil
}

func (h *Hub) saveLocked(ctx context.Context, s *Session) (*store.Snapshot, error) {
	var buf bytes.Buffer
	if err := s.manager.SaveSnapshot(&buf); err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.id, err)
	}
	snap, err := h.store.Save(ctx, s.id, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.id, err)
	}
	s.dirty = false

	slog.Debug("session saved", "session", s.id, "version", snap.Version)
	return snap, nil
}

func (h *Hub) snapshotSessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// evictIdle saves and drops sessions that have no clients and were not used
// for the idle timeout. Sessions whose save fails stay in memory.
func (h *Hub) evictIdle(ctx context.Context) {
	cutoff := h.now().Add(-h.idle)
	for _, s := range h.snapshotSessions() {
		s.mu.Lock()
		if s.closed || len(s.clients) > 0 || s.lastUsed.After(cutoff) {
			s.mu.Unlock()
			continue
		}
		if s.dirty {
			if _, err := h.saveLocked(ctx, s); err != nil {
				slog.Error("save idle session", "session", s.id, "error", err)
				s.mu.Unlock()
				continue
			}
		}
		s.closed = true
		s.mu.Unlock()

		h.mu.Lock()
		if h.sessions[s.id] == s {
			delete(h.sessions, s.id)
		}
		h.mu.Unlock()

		slog.Info("session evicted", "session", s.id)
	}
}

// --- Clients ---

func (h *Hub) addClient(client *Client) {
	h.mu.RLock()
	s, ok := h.sessions[client.SessionID]
	h.mu.RUnlock()
	if !ok {
		slog.Warn("client for unknown session", "session", client.SessionID)
		client.reject()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		client.reject()
		return
	}
	s.clients[client.ClientID] = client
	client.session = s
	s.lastUsed = h.now()
	welcome := WelcomePayload{ClientID: client.ClientID, State: StateOf(s.manager)}
	frame := h.renderPayload(s, h.frameMode())
	s.mu.Unlock()

	client.SendPayload(TypeWelcome, 0, welcome)
	client.SendPayload(TypeRender, 0, frame)

	slog.Info("client joined", "session", client.SessionID, "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	s := client.session
	if s == nil {
		// Never joined
		return
	}

	s.mu.Lock()
	if _, ok := s.clients[client.ClientID]; ok {
		delete(s.clients, client.ClientID)
		close(client.send)
	}
	s.lastUsed = h.now()
	s.mu.Unlock()

	slog.Info("client left", "session", client.SessionID, "client", client.ClientID)
}

func (h *Hub) renderPayload(s *Session, mode Mode) RenderPayload {
	return RenderPayload{
		Mode:  mode,
		Frame: render.NewFrame(Frame(s.manager, mode), render.Identity()),
		State: StateOf(s.manager),
	}
}

// broadcastLocked pushes a frame to every client of s. s.mu must be held.
func (h *Hub) broadcastLocked(s *Session, mode Mode) {
	if len(s.clients) == 0 {
		return
	}
	payload, err := json.Marshal(h.renderPayload(s, mode))
	if err != nil {
		slog.Error("marshal frame", "session", s.id, "error", err)
		return
	}
	msg := &Message{Type: TypeRender, SessionID: s.id, Payload: payload}
	for _, c := range s.clients {
		c.Send(msg)
	}
}
