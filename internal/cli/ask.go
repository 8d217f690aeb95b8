// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command.
//
// Command: ask [question]
//
// Examples:
//   ragchat ask "What does the onboarding guide say about VPN access?"
//   ragchat ask -c 12 "And for contractors?"
//   ragchat ask --json "Summarize the travel policy"
//   cat question.txt | ragchat ask
//
// Flags:
//   -c, --conversation ID  Continue an existing conversation
//   --thinking             Print the thinking segment too
//   --json                 Output the reply as JSON
//   -q, --quiet            Answer only
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/thinking"
	"github.com/jeranaias/ragchat/internal/util"
)

// MaxStdinQuery bounds a question read from stdin.
const MaxStdinQuery = 1 << 20

// HandleAsk sends one question and prints the answer.
func HandleAsk(ctx context.Context, env *Env, args Args) error {
	query := util.NormalizeText(args.Query)
	if strings.TrimSpace(query) == "" && (env.In != nil || !IsTTY()) {
		data, err := io.ReadAll(io.LimitReader(env.in(), MaxStdinQuery))
		if err != nil {
			return NewCommandError("ask", "read", "could not read question from stdin", err)
		}
		query = strings.TrimSpace(util.NormalizeText(string(data)))
	}
	if strings.TrimSpace(query) == "" {
		return ErrMissingArgument("question", `ragchat ask "What is in the handbook?"`)
	}

	start := time.Now()
	reply, err := env.Client.SendMessage(ctx, query, args.ConversationID)
	if err != nil {
		env.logger().Warn("ask failed", zap.Error(err))
		return err
	}
	elapsed := time.Since(start)

	if args.JSON {
		seg := thinking.Parse(reply.Answer)
		data := AskData{
			Answer:         seg.Main,
			Thinking:       seg.Thinking,
			ConversationID: reply.ConversationID,
			Title:          reply.Title,
			Sources:        reply.Sources,
			DurationMs:     elapsed.Milliseconds(),
		}
		return NewJSONResponse("ask", data).Fprint(env.out())
	}

	p := newPrinter(env)
	if args.Thinking {
		p.showThinking = true
	}
	p.answer(reply.Answer, reply.Sources)

	if !args.Quiet {
		var meta []string
		if reply.ConversationID != nil {
			meta = append(meta, fmt.Sprintf("conversation #%d", *reply.ConversationID))
		}
		if reply.Title != "" {
			meta = append(meta, reply.Title)
		}
		meta = append(meta, fmt.Sprintf("%.1fs", elapsed.Seconds()))
		fmt.Fprintln(env.out())
		fmt.Fprintln(env.out(), RenderConditional(DimStyle, strings.Join(meta, "  ")))
	}
	return nil
}
