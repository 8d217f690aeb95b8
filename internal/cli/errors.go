// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types, display and exit codes for ragchat commands.
//
// Handlers ALWAYS return errors; main decides how to display them.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitBackendError indicates the chat service rejected a request
	ExitBackendError = 4
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "upload")
	Action  string // Action being performed (e.g., "read")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Example: example,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return NewValidationErrorWithExample(argName, "", "required argument missing", usage)
}

// ErrUnknownCommand reports a command name that Parse did not recognize.
func ErrUnknownCommand(name string) error {
	return NewValidationErrorWithExample("command", name, "unknown command", "ragchat help")
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w, as JSON when jsonMode is set.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(w, command, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", RenderConditional(ErrorStyle, "[ERROR]"), describeError(err))
}

// DisplayErrorJSON writes err as a JSON error document.
func DisplayErrorJSON(w io.Writer, command string, err error) {
	msg := describeError(err)
	output := map[string]interface{}{
		"success":   false,
		"command":   command,
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	var te *client.TransportError
	var ve *ValidationError
	var ce *CommandError
	switch {
	case errors.As(err, &te):
		output["error_type"] = "transport_error"
		output["kind"] = te.Kind.String()
		output["op"] = te.Op
		if te.Status != 0 {
			output["status"] = te.Status
		}
		if te.Detail != "" {
			output["detail"] = te.Detail
		}
	case errors.As(err, &ve):
		output["error_type"] = "validation_error"
		output["field"] = ve.Field
		output["value"] = ve.Value
		output["reason"] = ve.Reason
	case errors.As(err, &ce):
		output["error_type"] = "command_error"
		output["action"] = ce.Action
		output["reason"] = ce.Reason
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

// describeError prefers the transport's user-facing text.
func describeError(err error) string {
	var te *client.TransportError
	if !errors.As(err, &te) {
		return err.Error()
	}
	switch {
	case te.Kind == client.BackendError && te.Detail != "":
		return fmt.Sprintf("%s (HTTP %d)", te.UserMessage(), te.Status)
	case te.Err != nil:
		return te.UserMessage() + ": " + te.Err.Error()
	default:
		return te.UserMessage()
	}
}

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var cfgErr config.ValidateErrors
	switch {
	case errors.As(err, &validationErr):
		return ExitUsageError
	case errors.As(err, &cfgErr), errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, client.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, client.ErrNetwork):
		return ExitNetworkError
	case errors.Is(err, client.ErrBackend), errors.Is(err, client.ErrDecode):
		return ExitBackendError
	case errors.Is(err, client.ErrUnsupportedFile), errors.Is(err, client.ErrFileTooLarge):
		return ExitUsageError
	}
	return ExitGeneralError
}

// errConfig marks configuration failures.
var errConfig = errors.New("configuration error")

// ConfigError wraps err so GetExitCode reports ExitConfigError.
func ConfigError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errConfig, err)
}
