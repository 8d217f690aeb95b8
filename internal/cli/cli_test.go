// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/model"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	os.Exit(m.Run())
}

// =============================================================================
// TEST BACKEND
// =============================================================================

// fakeService is an in-memory chat service.
type fakeService struct {
	mu       sync.Mutex
	messages []string
	deleted  []string
	uploads  []string
	failChat bool
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message        string `json:"message"`
			ConversationID *int64 `json:"conversation_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.messages = append(f.messages, req.Message)
		fail := f.failChat
		f.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"index offline"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"answer": "<think>scan the handbook</think>Travel needs approval.",
			"conversation_id": 3,
			"title": "Travel policy",
			"sources": [{"content": "All travel requires prior approval.", "source": "handbook.pdf"}]
		}`))
	})
	mux.HandleFunc("GET /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Older", "created_at": "2025-01-01T10:00:00", "updated_at": "2025-01-01T10:00:00"},
			{"id": 3, "title": "Travel policy", "created_at": "2025-02-01T10:00:00", "updated_at": "2025-02-02T10:00:00"}
		]`))
	})
	mux.HandleFunc("GET /api/conversations/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "3" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Conversation not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"id": 3, "title": "Travel policy",
			"created_at": "2025-02-01T10:00:00", "updated_at": "2025-02-02T10:00:00",
			"messages": [
				{"role": "user", "content": "Do I need approval?", "created_at": "2025-02-01T10:00:00"},
				{"role": "assistant", "content": "<think>check</think>Yes, always.", "created_at": "2025-02-01T10:00:05",
				 "sources": [{"content": "All travel requires prior approval.", "source": "handbook.pdf"}]}
			]
		}`))
	})
	mux.HandleFunc("DELETE /api/conversations/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		f.mu.Lock()
		f.uploads = append(f.uploads, header.Filename)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"filename": "` + header.Filename + `", "message": "indexed 4 chunks"}`))
	})
	return mux
}

func (f *fakeService) setFailChat(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failChat = fail
}

func (f *fakeService) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func (f *fakeService) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeService) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

// newTestEnv starts a fake service and returns an Env writing to out.
func newTestEnv(t *testing.T, in string) (*Env, *fakeService, *bytes.Buffer) {
	t.Helper()
	svc := &fakeService{}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	out := &bytes.Buffer{}
	env := &Env{
		Config: cfg,
		Client: client.New(srv.URL, client.WithTimeout(5*time.Second)),
		In:     strings.NewReader(in),
		Out:    out,
		Err:    io.Discard,
	}
	return env, svc, out
}

// unreachableEnv returns an Env whose backend refuses connections.
func unreachableEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := &bytes.Buffer{}
	return &Env{
		Config: config.Default(),
		Client: client.New(url, client.WithTimeout(2*time.Second)),
		In:     strings.NewReader(""),
		Out:    out,
		Err:    io.Discard,
	}, out
}

func int64Ptr(v int64) *int64 { return &v }

// =============================================================================
// PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		cmd   Command
		check func(*testing.T, Args)
	}{
		{
			name: "no args starts tui",
			argv: nil,
			cmd:  CmdTUI,
		},
		{
			name: "ask with conversation",
			argv: []string{"ask", "-c", "#12", "what", "about", "VPN?"},
			cmd:  CmdAsk,
			check: func(t *testing.T, a Args) {
				if a.ConversationID == nil || *a.ConversationID != 12 {
					t.Errorf("ConversationID = %v, want 12", a.ConversationID)
				}
				if a.Query != "what about VPN?" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name: "global flags anywhere",
			argv: []string{"--url=http://docs:8000", "list", "--json", "--refresh"},
			cmd:  CmdList,
			check: func(t *testing.T, a Args) {
				if a.URL != "http://docs:8000" || !a.JSON || !a.Refresh {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name: "show with thinking before id",
			argv: []string{"show", "--thinking", "3"},
			cmd:  CmdShow,
			check: func(t *testing.T, a Args) {
				if a.ConversationID == nil || *a.ConversationID != 3 || !a.Thinking {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name: "delete alias with yes",
			argv: []string{"rm", "7", "-y"},
			cmd:  CmdDelete,
			check: func(t *testing.T, a Args) {
				if a.ConversationID == nil || *a.ConversationID != 7 || !a.Yes {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name: "upload many files",
			argv: []string{"upload", "a.pdf", "b.txt"},
			cmd:  CmdUpload,
			check: func(t *testing.T, a Args) {
				if strings.Join(a.Raw, ",") != "a.pdf,b.txt" {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
		{
			name: "config set joins value",
			argv: []string{"config", "set", "upload.allowed_extensions", ".pdf,", ".md"},
			cmd:  CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "set" || a.ConfigKey != "upload.allowed_extensions" || a.ConfigVal != ".pdf, .md" {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name: "chat continues conversation",
			argv: []string{"chat", "--conversation=4"},
			cmd:  CmdChat,
			check: func(t *testing.T, a Args) {
				if a.ConversationID == nil || *a.ConversationID != 4 {
					t.Errorf("ConversationID = %v", a.ConversationID)
				}
			},
		},
		{
			name: "unknown command",
			argv: []string{"frobnicate"},
			cmd:  CmdHelp,
			check: func(t *testing.T, a Args) {
				if len(a.Raw) != 1 || a.Raw[0] != "frobnicate" {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.cmd {
				t.Fatalf("command = %v, want %v", cmd, tt.cmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestArgParser_BoolFlagsDoNotConsume(t *testing.T) {
	p := NewArgParser([]string{"--thinking", "12", "--format=md", "--", "--literal"}, "thinking")
	assert.True(t, p.BoolFlag("thinking"))
	assert.Equal(t, "12", p.Subcommand())
	assert.Equal(t, "md", p.Flag("format"))
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
	assert.Equal(t, []string{"12", "--literal"}, p.PositionalFrom(0))
}

func TestParseID(t *testing.T) {
	id, err := parseID("#42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

// =============================================================================
// ASK
// =============================================================================

func TestHandleAsk_Text(t *testing.T) {
	env, svc, out := newTestEnv(t, "")

	err := HandleAsk(context.Background(), env, Args{Query: "Do I need approval?"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Travel needs approval.")
	assert.NotContains(t, text, "scan the handbook")
	assert.Contains(t, text, "handbook.pdf")
	assert.Contains(t, text, "conversation #3")
	assert.Equal(t, []string{"Do I need approval?"}, svc.sent())
}

func TestHandleAsk_JSONFromStdin(t *testing.T) {
	env, svc, out := newTestEnv(t, "  question from a pipe \n")

	err := HandleAsk(context.Background(), env, Args{JSON: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"question from a pipe"}, svc.sent())

	var resp struct {
		Success bool    `json:"success"`
		Data    AskData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Travel needs approval.", resp.Data.Answer)
	assert.Equal(t, "scan the handbook", resp.Data.Thinking)
	require.NotNil(t, resp.Data.ConversationID)
	assert.Equal(t, int64(3), *resp.Data.ConversationID)
	require.Len(t, resp.Data.Sources, 1)
}

func TestHandleAsk_MissingQuestion(t *testing.T) {
	env, _, _ := newTestEnv(t, "")

	err := HandleAsk(context.Background(), env, Args{})
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleAsk_BackendError(t *testing.T) {
	env, svc, _ := newTestEnv(t, "")
	svc.setFailChat(true)

	err := HandleAsk(context.Background(), env, Args{Query: "hello"})
	require.Error(t, err)
	assert.Equal(t, ExitBackendError, GetExitCode(err))
	assert.Contains(t, describeError(err), "index offline")
}

func TestHandleAsk_Unreachable(t *testing.T) {
	env, _ := unreachableEnv(t)

	err := HandleAsk(context.Background(), env, Args{Query: "hello"})
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

func TestHandleList(t *testing.T) {
	env, _, out := newTestEnv(t, "")

	require.NoError(t, HandleList(context.Background(), env, Args{}))
	text := out.String()
	assert.Contains(t, text, "Travel policy")
	assert.Less(t, strings.Index(text, "Travel policy"), strings.Index(text, "Older"), "newest first")

	out.Reset()
	require.NoError(t, HandleList(context.Background(), env, Args{JSON: true, Refresh: true}))
	var resp struct {
		Data ConversationListData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, int64(3), resp.Data.Conversations[0].ID)
}

func TestPrintConversationTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printConversationTable(&buf, nil, nil)
	assert.Contains(t, buf.String(), "No saved conversations")
}

func TestHandleShow(t *testing.T) {
	env, _, out := newTestEnv(t, "")

	require.NoError(t, HandleShow(context.Background(), env, Args{ConversationID: int64Ptr(3)}))
	text := out.String()
	assert.Contains(t, text, "Travel policy (#3)")
	assert.Contains(t, text, "Do I need approval?")
	assert.Contains(t, text, "Yes, always.")
	assert.NotContains(t, text, "check")

	out.Reset()
	require.NoError(t, HandleShow(context.Background(), env, Args{ConversationID: int64Ptr(3), Thinking: true}))
	assert.Contains(t, out.String(), "check")
}

func TestHandleShow_Errors(t *testing.T) {
	env, _, _ := newTestEnv(t, "")

	err := HandleShow(context.Background(), env, Args{})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleShow(context.Background(), env, Args{ConversationID: int64Ptr(99)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrNotFound))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestHandleDelete_Confirmation(t *testing.T) {
	env, svc, out := newTestEnv(t, "n\n")

	require.NoError(t, HandleDelete(context.Background(), env, Args{ConversationID: int64Ptr(3)}))
	assert.Contains(t, out.String(), "Cancelled.")
	assert.Empty(t, svc.deletedIDs())

	env.In = strings.NewReader("yes\n")
	require.NoError(t, HandleDelete(context.Background(), env, Args{ConversationID: int64Ptr(3)}))
	assert.Equal(t, []string{"3"}, svc.deletedIDs())
	assert.Contains(t, out.String(), "Deleted conversation #3")
}

func TestHandleDelete_YesJSON(t *testing.T) {
	env, svc, out := newTestEnv(t, "")

	require.NoError(t, HandleDelete(context.Background(), env, Args{ConversationID: int64Ptr(5), Yes: true, JSON: true}))
	assert.Equal(t, []string{"5"}, svc.deletedIDs())
	assert.Contains(t, out.String(), `"deleted": true`)
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestHandleUpload(t *testing.T) {
	env, svc, out := newTestEnv(t, "")
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("meeting notes"), 0644))

	require.NoError(t, HandleUpload(context.Background(), env, Args{Raw: []string{good}}))
	assert.Equal(t, []string{"notes.txt"}, svc.uploaded())
	assert.Contains(t, out.String(), "Uploaded notes.txt: indexed 4 chunks")
}

func TestHandleUpload_PartialFailure(t *testing.T) {
	env, svc, out := newTestEnv(t, "")
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.txt")
	bad := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(good, []byte("notes"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("MZ"), 0644))

	err := HandleUpload(context.Background(), env, Args{Raw: []string{bad, good}, JSON: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Equal(t, []string{"notes.txt"}, svc.uploaded())

	var resp struct {
		Data []UploadData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.NotEmpty(t, resp.Data[0].Error)
	assert.Equal(t, "indexed 4 chunks", resp.Data[1].Message)
}

func TestHandleUpload_NoFiles(t *testing.T) {
	env, _, _ := newTestEnv(t, "")
	err := HandleUpload(context.Background(), env, Args{})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// STATUS
// =============================================================================

func TestHandleStatus_Reachable(t *testing.T) {
	env, _, out := newTestEnv(t, "")

	require.NoError(t, HandleStatus(context.Background(), env, Args{JSON: true}))
	var resp struct {
		Data StatusData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Data.Reachable)
	assert.Equal(t, 2, resp.Data.Conversations)
	assert.Equal(t, env.Client.BaseURL(), resp.Data.Backend)
}

func TestHandleStatus_Unreachable(t *testing.T) {
	env, out := unreachableEnv(t)

	err := HandleStatus(context.Background(), env, Args{})
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
	assert.Contains(t, out.String(), "[FAIL]")
	assert.Contains(t, out.String(), "Cannot reach the chat service")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig_SetGet(t *testing.T) {
	t.Setenv("RAGCHAT_HOME", t.TempDir())
	env, _, out := newTestEnv(t, "")
	env.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, HandleConfig(env, Args{Subcommand: "set", ConfigKey: "backend.timeout_secs", ConfigVal: "45"}))
	assert.Contains(t, out.String(), "backend.timeout_secs = 45")

	saved, err := config.LoadFromPath(env.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 45, saved.Backend.TimeoutSecs)

	env.Config = saved
	out.Reset()
	require.NoError(t, HandleConfig(env, Args{Subcommand: "get", ConfigKey: "backend.timeout_secs"}))
	assert.Equal(t, "45\n", out.String())
}

func TestHandleConfig_Errors(t *testing.T) {
	env, _, _ := newTestEnv(t, "")
	env.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	err := HandleConfig(env, Args{Subcommand: "set", ConfigKey: "backend.nope", ConfigVal: "1"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(env, Args{Subcommand: "set", ConfigKey: "ui.plain", ConfigVal: "maybe"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(env, Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "neon"})
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	err = HandleConfig(env, Args{Subcommand: "bogus"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_Init(t *testing.T) {
	env, _, out := newTestEnv(t, "")
	env.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, HandleConfig(env, Args{Subcommand: "init"}))
	assert.Contains(t, out.String(), "Wrote")
	_, err := config.LoadFromPath(env.ConfigPath)
	require.NoError(t, err)

	err = HandleConfig(env, Args{Subcommand: "init"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	require.NoError(t, HandleConfig(env, Args{Subcommand: "init", Yes: true}))
}

// =============================================================================
// CHAT LOOP
// =============================================================================

func runScript(t *testing.T, env *Env, args Args, script string) string {
	t.Helper()
	out := env.Out.(*bytes.Buffer)
	reader := newScanReader(strings.NewReader(script), out)
	require.NoError(t, runChat(context.Background(), env, args, reader))
	return out.String()
}

func TestChat_SendAndStatus(t *testing.T) {
	env, svc, _ := newTestEnv(t, "")

	text := runScript(t, env, Args{}, "Do I need approval?\n\n/status\n/quit\nnot sent\n")
	assert.Equal(t, []string{"Do I need approval?"}, svc.sent())
	assert.Contains(t, text, "Travel needs approval.")
	assert.Contains(t, text, "#3> ")
	assert.Contains(t, text, "Travel policy (#3)")
	assert.Contains(t, text, "Session ended: 2 messages")
}

func TestChat_FailureShowsPlaceholder(t *testing.T) {
	env, svc, _ := newTestEnv(t, "")
	svc.setFailChat(true)

	text := runScript(t, env, Args{Quiet: true}, "hello\n")
	assert.Contains(t, text, model.ErrorReply)
	assert.Contains(t, text, "index offline")
}

func TestChat_LoadAndList(t *testing.T) {
	env, _, _ := newTestEnv(t, "")

	text := runScript(t, env, Args{Quiet: true}, "/load 3\n/list\n/load 99\n/load abc\n")
	assert.Contains(t, text, "Loaded #3")
	assert.Contains(t, text, "Yes, always.")
	assert.Contains(t, text, "* 3")
	assert.Contains(t, text, "Conversation not found")
	assert.Contains(t, text, "must be a positive integer")
}

func TestChat_StartsFromConversation(t *testing.T) {
	env, svc, _ := newTestEnv(t, "")

	text := runScript(t, env, Args{Quiet: true, ConversationID: int64Ptr(3)}, "follow up\n")
	assert.Contains(t, text, "Loaded #3")
	assert.Equal(t, []string{"follow up"}, svc.sent())
}

func TestChat_Commands(t *testing.T) {
	env, svc, _ := newTestEnv(t, "")
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(doc, []byte("text"), 0644))
	exported := filepath.Join(dir, "out.html")

	script := strings.Join([]string{
		"/help",
		"/export",
		"/thinking",
		"question",
		"/sources",
		"/upload " + doc,
		"/upload",
		"/export " + exported,
		"/new",
		"/nope",
		"exit",
	}, "\n")
	text := runScript(t, env, Args{Quiet: true}, script)

	assert.Contains(t, text, "/load <id>")
	assert.Contains(t, text, "Nothing to export")
	assert.Contains(t, text, "Thinking shown")
	assert.Contains(t, text, "scan the handbook")
	assert.Contains(t, text, "Sources hidden")
	assert.Contains(t, text, "Uploaded doc.txt: indexed 4 chunks")
	assert.Contains(t, text, "Usage: /upload <file>")
	assert.Contains(t, text, "Exported to "+exported)
	assert.Contains(t, text, "Started a new conversation")
	assert.Contains(t, text, "Unknown command /nope")
	assert.Equal(t, []string{"doc.txt"}, svc.uploaded())

	page, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Travel policy</title>")
	assert.NotContains(t, string(page), "handbook.pdf")
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", ErrMissingArgument("id", "ragchat show 1"), ExitUsageError},
		{"config", ConfigError(errors.New("bad toml")), ExitConfigError},
		{"not found", &client.TransportError{Kind: client.BackendError, Status: http.StatusNotFound}, ExitNotFoundError},
		{"server", &client.TransportError{Kind: client.BackendError, Status: http.StatusBadGateway}, ExitBackendError},
		{"network", &client.TransportError{Kind: client.NetworkFailure, Err: errors.New("refused")}, ExitNetworkError},
		{"timeout", context.DeadlineExceeded, ExitTimeoutError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "show", &client.TransportError{Kind: client.BackendError, Op: "load", Status: 404}, true)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, false, doc["success"])
	assert.Equal(t, "transport_error", doc["error_type"])
	assert.Equal(t, "load", doc["op"])
	assert.Equal(t, "Conversation not found", doc["error"])
}
