// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeranaias/ragchat/internal/util"
)

// Kind classifies a transport failure.
type Kind int

const (
	// NetworkFailure means no response was received.
	NetworkFailure Kind = iota + 1
	// BackendError means the backend answered with a non-2xx status.
	BackendError
	// DecodeError means the response body did not have the expected shape.
	DecodeError
)

// String returns the metric and log label of the kind.
func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case BackendError:
		return "backend"
	case DecodeError:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against a *TransportError.
var (
	ErrNetwork = errors.New("network failure")
	ErrBackend = errors.New("backend error")
	ErrDecode  = errors.New("unexpected response")

	// ErrNotFound matches a 404 from the backend.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited matches a 429 from the backend.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError matches any 5xx from the backend.
	ErrServerError = errors.New("server error")
)

// TransportError is returned by every failing Client call.
type TransportError struct {
	Kind Kind
	// Op is the client operation, e.g. "send" or "load".
	Op string
	// Status is the HTTP status for BackendError, 0 otherwise.
	Status int
	// Detail is the backend's error message when it supplied one.
	Detail string
	// Err is the underlying cause for NetworkFailure and DecodeError.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch e.Kind {
	case BackendError:
		if e.Detail != "" {
			return fmt.Sprintf("%s: backend error (HTTP %d): %s", e.Op, e.Status, e.Detail)
		}
		return fmt.Sprintf("%s: backend error (HTTP %d)", e.Op, e.Status)
	case NetworkFailure:
		return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
	}
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == NetworkFailure
	case ErrBackend:
		return e.Kind == BackendError
	case ErrDecode:
		return e.Kind == DecodeError
	case ErrNotFound:
		return e.Kind == BackendError && e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Kind == BackendError && e.Status == http.StatusTooManyRequests
	case ErrServerError:
		return e.Kind == BackendError && e.Status >= 500 && e.Status < 600
	}
	return false
}

// UserMessage returns a short description suitable for a toast or status line.
func (e *TransportError) UserMessage() string {
	switch {
	case e.Is(ErrNotFound):
		return "Conversation not found"
	case e.Kind == NetworkFailure:
		return "Cannot reach the chat service"
	case e.Kind == DecodeError:
		return "The chat service sent an unexpected response"
	case e.Detail != "":
		return e.Detail
	default:
		return fmt.Sprintf("The chat service returned HTTP %d", e.Status)
	}
}

// KindOf returns the Kind of err, or 0 when err is not a *TransportError.
func KindOf(err error) Kind {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

// apiErrorResponse is the FastAPI error body. Detail is either a string or
// a list of validation errors.
type apiErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type apiValidationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// handleErrorResponse converts a non-2xx response into a *TransportError.
func handleErrorResponse(op string, statusCode int, body []byte) error {
	return &TransportError{
		Kind:   BackendError,
		Op:     op,
		Status: statusCode,
		Detail: parseDetail(body),
	}
}

// parseDetail extracts a readable message from an error body.
const maxDetailRunes = 200

func parseDetail(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Detail) > 0 {
		var s string
		if err := json.Unmarshal(apiErr.Detail, &s); err == nil {
			return s
		}
		var items []apiValidationItem
		if err := json.Unmarshal(apiErr.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				loc := make([]string, 0, len(it.Loc))
				for _, l := range it.Loc {
					loc = append(loc, fmt.Sprint(l))
				}
				if len(loc) > 0 {
					msgs = append(msgs, strings.Join(loc, ".")+": "+it.Msg)
				} else {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	return util.TruncateRunes(strings.TrimSpace(string(body)), maxDetailRunes)
}
