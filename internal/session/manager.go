// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/util"
)

// ErrStale is returned when a response arrived for a session that has since
// been reset or replaced.
var ErrStale = errors.New("session changed while request was in flight")

// Transport is the subset of the backend client the Manager uses.
type Transport interface {
	SendMessage(ctx context.Context, text string, conversationID *int64) (*client.ChatReply, error)
	LoadConversation(ctx context.Context, id int64) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the active conversation. It is safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	transport Transport
	logger    *zap.Logger

	conversationID *int64
	title          string
	messages       []*model.Message

	// pending counts calls issued under the current generation that have
	// not completed yet.
	pending    int
	generation uint64
	// loadSeq identifies the most recent load so an older load that
	// completes later is not applied over it.
	loadSeq uint64

	startTime    time.Time
	lastActivity time.Time

	subscribers map[int]func(State)
	nextSub     int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.Named("session")
		}
	}
}

// NewManager creates an empty session backed by transport.
func NewManager(transport Transport, opts ...Option) *Manager {
	now := time.Now()
	m := &Manager{
		transport:    transport,
		logger:       zap.NewNop(),
		startTime:    now,
		lastActivity: now,
		subscribers:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// =============================================================================
// SEND
// =============================================================================

// SendOutcome describes what SendMessage did.
type SendOutcome int

const (
	// SendSkipped means the input was blank or another call was in flight.
	SendSkipped SendOutcome = iota
	// SendApplied means the reply was appended.
	SendApplied
	// SendFailed means the error placeholder was appended.
	SendFailed
	// SendDiscarded means the session changed before the reply arrived.
	SendDiscarded
)

// String returns a short label for logs.
func (o SendOutcome) String() string {
	switch o {
	case SendSkipped:
		return "skipped"
	case SendApplied:
		return "applied"
	case SendFailed:
		return "failed"
	case SendDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// SendResult reports the outcome of one SendMessage call.
type SendResult struct {
	Outcome SendOutcome
	// Reply is the appended assistant message for SendApplied and SendFailed.
	Reply *model.Message
	// Err is the transport error for SendFailed and, when the call failed,
	// for SendDiscarded.
	Err error
}

// sendTicket carries what a send needs after the optimistic update.
type sendTicket struct {
	text           string
	conversationID *int64
	generation     uint64
}

// SendMessage appends text as a user message, sends it to the backend and
// appends exactly one assistant message: the reply on success or the error
// placeholder on failure. Blank input and calls made while another call is
// in flight are skipped without changing state.
func (m *Manager) SendMessage(ctx context.Context, text string) SendResult {
	ticket, ok := m.beginSend(text)
	if !ok {
		return SendResult{Outcome: SendSkipped}
	}
	return m.completeSend(ctx, ticket)
}

func (m *Manager) beginSend(text string) (sendTicket, bool) {
	text = util.NormalizeText(text)
	if strings.TrimSpace(text) == "" {
		return sendTicket{}, false
	}

	m.mu.Lock()
	if m.pending > 0 {
		m.mu.Unlock()
		m.logger.Debug("send skipped, request in flight")
		return sendTicket{}, false
	}
	m.messages = append(m.messages, model.NewUserMessage(text))
	m.pending++
	m.lastActivity = time.Now()
	ticket := sendTicket{
		text:           text,
		conversationID: copyID(m.conversationID),
		generation:     m.generation,
	}
	m.mu.Unlock()

	m.notify()
	return ticket, true
}

func (m *Manager) completeSend(ctx context.Context, ticket sendTicket) SendResult {
	reply, err := m.callSend(ctx, ticket)

	m.mu.Lock()
	if ticket.generation != m.generation {
		m.mu.Unlock()
		m.logger.Debug("dropping stale send response",
			zap.Uint64("generation", ticket.generation))
		return SendResult{Outcome: SendDiscarded, Err: err}
	}
	m.pending--

	var res SendResult
	if err != nil {
		res = SendResult{Outcome: SendFailed, Reply: model.NewErrorMessage(), Err: err}
	} else {
		if m.conversationID == nil {
			m.adoptIdentity(reply)
		}
		res = SendResult{Outcome: SendApplied, Reply: model.NewAssistantMessage(reply.Answer, reply.Sources)}
	}
	m.messages = append(m.messages, res.Reply)
	m.lastActivity = time.Now()
	res.Reply = res.Reply.Clone()
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("send failed", zap.Error(err))
	}
	m.notify()
	return res
}

// callSend invokes the transport. A panic is converted into an error so the
// exchange still completes.
func (m *Manager) callSend(ctx context.Context, ticket sendTicket) (reply *client.ChatReply, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = nil, fmt.Errorf("send: transport panic: %v", r)
		}
	}()
	reply, err = m.transport.SendMessage(ctx, ticket.text, ticket.conversationID)
	if err == nil && reply == nil {
		err = errors.New("send: empty reply")
	}
	return reply, err
}

// adoptIdentity takes the backend-assigned id and title for an unsaved
// session. A reply without an id leaves the session untitled. Must be
// called with mu held.
func (m *Manager) adoptIdentity(reply *client.ChatReply) {
	if reply.ConversationID == nil {
		return
	}
	m.conversationID = copyID(reply.ConversationID)
	m.title = reply.Title
	if m.title == "" {
		m.title = model.DefaultTitle
	}
}

// =============================================================================
// LOAD
// =============================================================================

type loadTicket struct {
	id         int64
	generation uint64
	seq        uint64
}

// LoadConversation replaces the session with conversation id from the
// backend. On failure the session is left as it was and the error is
// returned. ErrStale is returned when the session changed before the load
// completed.
func (m *Manager) LoadConversation(ctx context.Context, id int64) error {
	return m.completeLoad(ctx, m.beginLoad(id))
}

func (m *Manager) beginLoad(id int64) loadTicket {
	m.mu.Lock()
	m.pending++
	m.loadSeq++
	m.lastActivity = time.Now()
	ticket := loadTicket{id: id, generation: m.generation, seq: m.loadSeq}
	m.mu.Unlock()

	m.notify()
	return ticket
}

func (m *Manager) completeLoad(ctx context.Context, ticket loadTicket) error {
	conv, err := m.callLoad(ctx, ticket.id)

	m.mu.Lock()
	if ticket.generation != m.generation {
		m.mu.Unlock()
		m.logger.Debug("dropping stale load response", zap.Int64("id", ticket.id))
		return ErrStale
	}
	m.pending--

	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("load conversation failed",
			zap.Int64("id", ticket.id),
			zap.Error(err))
		m.notify()
		return err
	}

	if ticket.seq != m.loadSeq {
		m.mu.Unlock()
		m.logger.Debug("dropping superseded load", zap.Int64("id", ticket.id))
		m.notify()
		return ErrStale
	}

	id := ticket.id
	m.conversationID = &id
	m.title = conv.Title
	m.messages = model.CloneMessages(conv.Messages)
	m.advance()
	m.mu.Unlock()

	m.logger.Debug("conversation loaded",
		zap.Int64("id", id),
		zap.Int("messages", len(conv.Messages)))
	m.notify()
	return nil
}

func (m *Manager) callLoad(ctx context.Context, id int64) (conv *model.Conversation, err error) {
	defer func() {
		if r := recover(); r != nil {
			conv, err = nil, fmt.Errorf("load: transport panic: %v", r)
		}
	}()
	conv, err = m.transport.LoadConversation(ctx, id)
	if err == nil && conv == nil {
		err = errors.New("load: empty conversation")
	}
	return conv, err
}

// =============================================================================
// RESET / DELETE
// =============================================================================

// StartNewConversation discards the session and starts an empty, unsaved
// one. Responses to calls still in flight are dropped when they arrive.
func (m *Manager) StartNewConversation() {
	m.mu.Lock()
	m.conversationID = nil
	m.title = ""
	m.messages = nil
	m.advance()
	m.lastActivity = time.Now()
	m.mu.Unlock()

	m.notify()
}

// DeleteConversation deletes conversation id on the backend. When it is the
// active conversation the session is reset.
func (m *Manager) DeleteConversation(ctx context.Context, id int64) error {
	if err := m.transport.DeleteConversation(ctx, id); err != nil {
		m.logger.Warn("delete conversation failed",
			zap.Int64("id", id),
			zap.Error(err))
		return err
	}

	m.mu.Lock()
	active := m.conversationID != nil && *m.conversationID == id
	m.mu.Unlock()

	if active {
		m.StartNewConversation()
	}
	return nil
}

// advance starts a new generation. Must be called with mu held.
func (m *Manager) advance() {
	m.generation++
	m.pending = 0
}

// =============================================================================
// READ ACCESS
// =============================================================================

// State is a copy of the session at one point in time.
type State struct {
	// ConversationID is nil for an unsaved session.
	ConversationID *int64
	Title          string
	Messages       []*model.Message
	IsLoading      bool
	Generation     uint64
}

// DisplayTitle returns the title or the default for untitled sessions.
func (s State) DisplayTitle() string {
	return model.DisplayTitle(s.Title)
}

// Saved reports whether the session has a backend identity.
func (s State) Saved() bool {
	return s.ConversationID != nil
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	return State{
		ConversationID: copyID(m.conversationID),
		Title:          m.title,
		Messages:       model.CloneMessages(m.messages),
		IsLoading:      m.pending > 0,
		Generation:     m.generation,
	}
}

// IsLoading reports whether a call issued by this session is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change. The returned function
// removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	if len(m.subscribers) == 0 {
		m.mu.Unlock()
		return
	}
	state := m.snapshotLocked()
	fns := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	// Callbacks run outside the lock.
	for _, fn := range fns {
		fn(state)
	}
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status summarizes the session for status lines.
type Status struct {
	ConversationID *int64
	Title          string
	Messages       int
	IsLoading      bool
	StartTime      time.Time
	Duration       time.Duration
	IdleTime       time.Duration
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		ConversationID: copyID(m.conversationID),
		Title:          model.DisplayTitle(m.title),
		Messages:       len(m.messages),
		IsLoading:      m.pending > 0,
		StartTime:      m.startTime,
		Duration:       now.Sub(m.startTime),
		IdleTime:       now.Sub(m.lastActivity),
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
