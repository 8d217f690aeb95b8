// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `[
	{"id": 1, "title": "Older", "created_at": "2025-02-26T09:00:00", "updated_at": "2025-02-26T09:00:00", "messages": []},
	{"id": 2, "title": "Newer", "created_at": "2025-02-27T09:00:00+00:00", "updated_at": "2025-02-27T09:00:00+00:00", "messages": []}
]`

// =============================================================================
// LIST TESTS
// =============================================================================

func TestListConversations_SortedNewestFirst(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/conversations", r.URL.Path)
		w.Write([]byte(listBody))
	})

	list, err := c.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, "Older", list[1].Title)
}

func TestListConversations_Cache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			calls.Add(1)
			w.Write([]byte(listBody))
		case r.Method == http.MethodDelete:
			w.Write([]byte(`{"success":true}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithListCacheTTL(time.Minute))
	ctx := context.Background()

	first, err := c.ListConversations(ctx)
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := c.ListConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second call served from cache")
	assert.Equal(t, "Newer", second[0].Title, "cached list is not shared with callers")

	require.NoError(t, c.DeleteConversation(ctx, 2))
	_, err = c.ListConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "delete invalidates the cache")

	_, err = c.RefreshConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestListConversations_BadTimestamp(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"x","created_at":"yesterday","updated_at":""}]`))
	})

	_, err := c.ListConversations(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

// =============================================================================
// CREATE / DELETE TESTS
// =============================================================================

func TestCreateConversation(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Research", req["title"])
		w.Write([]byte(`{"id":11,"title":"Research","created_at":"2025-03-01T00:00:00","updated_at":"2025-03-01T00:00:00","messages":[]}`))
	})

	conv, err := c.CreateConversation(context.Background(), "Research")
	require.NoError(t, err)
	assert.Equal(t, int64(11), conv.ID)
	assert.Equal(t, "Research", conv.Title)
}

func TestDeleteConversation_NotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/conversations/3", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Conversation not found"}`))
	})

	err := c.DeleteConversation(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUploadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("retrieval augmented"), 0644))

	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "notes.txt", hdr.Filename)

		w.Write([]byte(`{"message":"File processed","filename":"notes.txt","chunks":3}`))
	})

	res, err := c.UploadDocument(context.Background(), path, UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", res.Filename)
	assert.Equal(t, "File processed", res.Message)
	assert.Equal(t, float64(3), res.Raw["chunks"])
}

func TestUploadDocument_Validation(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool.exe")
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(exe, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("x", 100)), 0644))

	var calls atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.UploadDocument(context.Background(), exe, UploadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = c.UploadDocument(context.Background(), big, UploadOptions{MaxBytes: 10})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = c.UploadDocument(context.Background(), filepath.Join(dir, "missing.txt"), UploadOptions{})
	assert.Error(t, err)

	assert.Equal(t, int32(0), calls.Load(), "invalid uploads never reach the backend")
}

func TestUploadDocument_BackendRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0644))

	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"could not parse PDF"}`))
	})

	_, err := c.UploadDocument(context.Background(), path, UploadOptions{})
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "could not parse PDF")
}
