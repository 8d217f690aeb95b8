// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to files.
//
// # Supported Formats
//
//   - Markdown: Human-readable transcript, thinking as blockquotes
//   - JSON: The conversation as the backend returned it, plus export metadata
//   - HTML: Standalone page with embedded CSS, thinking in <details>
//
// # Usage
//
//	exp, err := export.ForFormat("md", export.DefaultOptions())
//	path, err := export.ExportToFile(conv, exp, "budget.md")
package export
