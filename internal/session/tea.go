// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// SendDoneMsg is delivered when a send started by SendCmd completes.
type SendDoneMsg struct {
	Result SendResult
}

// LoadDoneMsg is delivered when a load started by LoadCmd completes.
type LoadDoneMsg struct {
	ID  int64
	Err error
}

// DeleteDoneMsg is delivered when a delete started by DeleteCmd completes.
type DeleteDoneMsg struct {
	ID  int64
	Err error
}

// SendCmd applies the optimistic user message immediately and returns a
// command that performs the exchange. It returns nil when the send is
// skipped.
func (m *Manager) SendCmd(ctx context.Context, text string) tea.Cmd {
	ticket, ok := m.beginSend(text)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return SendDoneMsg{Result: m.completeSend(ctx, ticket)}
	}
}

// LoadCmd marks the session as loading immediately and returns a command
// that fetches conversation id.
func (m *Manager) LoadCmd(ctx context.Context, id int64) tea.Cmd {
	ticket := m.beginLoad(id)
	return func() tea.Msg {
		return LoadDoneMsg{ID: id, Err: m.completeLoad(ctx, ticket)}
	}
}

// DeleteCmd returns a command that deletes conversation id.
func (m *Manager) DeleteCmd(ctx context.Context, id int64) tea.Cmd {
	return func() tea.Msg {
		return DeleteDoneMsg{ID: id, Err: m.DeleteConversation(ctx, id)}
	}
}

// StateChangedMsg carries a snapshot taken after a state change.
type StateChangedMsg struct {
	State State
}

// Forward subscribes to state changes and delivers them to send as
// StateChangedMsg. Delivery runs on its own goroutine, so send may block
// (tea.Program.Send does until the event loop reads it). Snapshots that
// arrive while a delivery is pending are coalesced into the newest one.
func (m *Manager) Forward(send func(tea.Msg)) (stop func()) {
	var (
		mu     sync.Mutex
		latest *State
	)
	wake := make(chan struct{}, 1)
	done := make(chan struct{})

	unsubscribe := m.Subscribe(func(s State) {
		mu.Lock()
		latest = &s
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-wake:
			}
			mu.Lock()
			s := latest
			latest = nil
			mu.Unlock()
			if s != nil {
				send(StateChangedMsg{State: *s})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}
}
