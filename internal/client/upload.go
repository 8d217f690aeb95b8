// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultUploadExtensions are the document types the backend ingests.
var DefaultUploadExtensions = []string{".pdf", ".txt", ".docx"}

// Upload validation errors. These are returned before any request is made.
var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// UploadOptions limits what UploadDocument accepts.
type UploadOptions struct {
	// AllowedExtensions defaults to DefaultUploadExtensions.
	AllowedExtensions []string
	// MaxBytes is the largest accepted file. 0 means no limit.
	MaxBytes int64
}

// UploadResult is the backend's answer to an upload.
type UploadResult struct {
	Filename string
	Message  string
	// Raw holds the full decoded response.
	Raw map[string]any
}

// UploadDocument sends the file at path to POST /upload as the multipart
// field "file".
func (c *Client) UploadDocument(ctx context.Context, path string, opts UploadOptions) (*UploadResult, error) {
	name := filepath.Base(path)
	if err := checkUpload(path, opts); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	body, err := c.do(ctx, "upload", http.MethodPost, "/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	res := &UploadResult{Filename: name}
	if len(bytes.TrimSpace(body)) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(body, &res.Raw); err != nil {
		return nil, &TransportError{Kind: DecodeError, Op: "upload", Err: err}
	}
	if v, ok := res.Raw["filename"].(string); ok && v != "" {
		res.Filename = v
	}
	if v, ok := res.Raw["message"].(string); ok {
		res.Message = v
	}
	return res, nil
}

// checkUpload validates the extension and size of the file at path.
func checkUpload(path string, opts UploadOptions) error {
	allowed := opts.AllowedExtensions
	if len(allowed) == 0 {
		allowed = DefaultUploadExtensions
	}
	ext := strings.ToLower(filepath.Ext(path))
	ok := false
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w %q, allowed: %s", ErrUnsupportedFile, ext, strings.Join(allowed, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", filepath.Base(path))
	}
	if opts.MaxBytes > 0 && info.Size() > opts.MaxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, info.Size(), opts.MaxBytes)
	}
	return nil
}
