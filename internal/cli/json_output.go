// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting.

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/ragchat/internal/model"
)

// JSONResponse is the envelope every --json command prints.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Fprint writes the response as indented JSON.
func (r *JSONResponse) Fprint(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData is the version command output.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// AskData is the ask command output.
type AskData struct {
	Answer         string         `json:"answer"`
	Thinking       string         `json:"thinking,omitempty"`
	ConversationID *int64         `json:"conversation_id"`
	Title          string         `json:"title,omitempty"`
	Sources        []model.Source `json:"sources"`
	DurationMs     int64          `json:"duration_ms"`
}

// ConversationListData is the list command output.
type ConversationListData struct {
	Count         int                         `json:"count"`
	Conversations []model.ConversationSummary `json:"conversations"`
}

// UploadData is one upload command result.
type UploadData struct {
	Path     string                 `json:"path"`
	Filename string                 `json:"filename,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Response map[string]interface{} `json:"response,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// StatusData is the status command output.
type StatusData struct {
	Backend       string `json:"backend"`
	Reachable     bool   `json:"reachable"`
	LatencyMs     int64  `json:"latency_ms"`
	Conversations int    `json:"conversations"`
	Error         string `json:"error,omitempty"`
	ConfigPath    string `json:"config_path"`
	LogFile       string `json:"log_file"`
	Telemetry     bool   `json:"telemetry"`
	Version       string `json:"version"`
}
