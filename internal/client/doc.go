// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client is the HTTP transport to the retrieval-augmented chat
// backend.
//
// It issues one request per call and never retries. Every failure is
// returned as a *TransportError whose Kind tells a dropped connection
// (NetworkFailure) from a non-2xx answer (BackendError) and from a payload
// that did not match the expected shape (DecodeError). Payloads are
// validated into the types of the model package before they are returned.
//
// # Endpoints
//
//   - POST   /chat                      send a message
//   - GET    /api/conversations/{id}    load a conversation with history
//   - GET    /api/conversations         list saved conversations
//   - POST   /api/conversations         create an empty conversation
//   - DELETE /api/conversations/{id}    delete a conversation
//   - POST   /upload                    upload a reference document
//
// # Usage
//
//	c := client.New(cfg.Backend.URL, client.WithLogger(logger))
//	reply, err := c.SendMessage(ctx, "hello", nil)
//	if errors.Is(err, client.ErrNetwork) {
//	    ...
//	}
package client
