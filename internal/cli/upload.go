// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - Document upload command.
//
// Command: upload <file>...
// Aliases: add
//
// Examples:
//   ragchat upload handbook.pdf
//   ragchat upload notes/*.md --json
//
// Files are sent one at a time. Every file is attempted; the command fails
// if any upload failed.
package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// HandleUpload uploads each named file to the knowledge base.
func HandleUpload(ctx context.Context, env *Env, args Args) error {
	if len(args.Raw) == 0 {
		return ErrMissingArgument("file", "ragchat upload handbook.pdf")
	}

	opts := uploadOptions(env.Config)
	results := make([]UploadData, 0, len(args.Raw))
	var firstErr error
	failed := 0

	for _, raw := range args.Raw {
		path := expandPath(raw)
		item := UploadData{Path: path}

		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}

		res, err := env.Client.UploadDocument(ctx, path, opts)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			item.Error = describeError(err)
			env.logger().Warn("upload failed", zap.String("path", path), zap.Error(err))
			if !args.JSON {
				fmt.Fprintf(env.out(), "%s %s: %s\n", RenderStatus("error"), path, item.Error)
			}
			results = append(results, item)
			continue
		}

		item.Filename = res.Filename
		item.Message = res.Message
		item.Response = res.Raw
		results = append(results, item)
		if !args.JSON {
			line := uploadSummary(res)
			if size > 0 && !args.Quiet {
				line += RenderConditional(DimStyle, fmt.Sprintf(" (%s)", formatBytes(size)))
			}
			fmt.Fprintf(env.out(), "%s %s\n", RenderStatus("ok"), line)
		}
	}

	if args.JSON {
		if err := NewJSONResponse("upload", results).Fprint(env.out()); err != nil {
			return err
		}
	}
	if failed == 0 {
		return nil
	}
	if len(args.Raw) == 1 {
		return firstErr
	}
	return NewCommandError("upload", "upload", fmt.Sprintf("%d of %d files failed", failed, len(args.Raw)), firstErr)
}
