// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversations.go - Saved conversation commands.
//
// Commands:
//   list [--refresh]         List saved conversations, most recent first
//   show <id> [--thinking]   Print a conversation
//   delete <id> [--yes]      Delete a conversation
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/ui/components"
	"github.com/jeranaias/ragchat/internal/util"
)

// titleColumnWidth bounds the title column of the conversation table.
const titleColumnWidth = 48

// DeleteData is the delete command output.
type DeleteData struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// =============================================================================
// LIST
// =============================================================================

// HandleList prints the saved conversations.
func HandleList(ctx context.Context, env *Env, args Args) error {
	list := env.Client.ListConversations
	if args.Refresh {
		list = env.Client.RefreshConversations
	}
	convs, err := list(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		if convs == nil {
			convs = []model.ConversationSummary{}
		}
		return NewJSONResponse("list", ConversationListData{
			Count:         len(convs),
			Conversations: convs,
		}).Fprint(env.out())
	}

	printConversationTable(env.out(), convs, nil)
	return nil
}

// printConversationTable writes one row per conversation. The active id, if
// any, is marked.
func printConversationTable(out io.Writer, convs []model.ConversationSummary, active *int64) {
	if len(convs) == 0 {
		fmt.Fprintln(out, RenderConditional(DimStyle, "No saved conversations"))
		return
	}

	now := time.Now()
	fmt.Fprintf(out, "  %s  %s  %s\n",
		RenderConditional(LabelStyle, util.PadRight("ID", 6)),
		RenderConditional(LabelStyle, util.PadRight("TITLE", titleColumnWidth)),
		RenderConditional(LabelStyle, "UPDATED"))
	for _, c := range convs {
		marker := " "
		if active != nil && *active == c.ID {
			marker = RenderConditional(SuccessStyle, "*")
		}
		updated := c.UpdatedAt
		if updated.IsZero() {
			updated = c.CreatedAt
		}
		when := components.RelativeTime(updated, now)
		if when == "" {
			when = "-"
		}
		title := util.TruncateWidth(util.SingleLine(c.DisplayTitle()), titleColumnWidth)
		fmt.Fprintf(out, "%s %-6d  %s  %s\n",
			marker, c.ID,
			util.PadRight(title, titleColumnWidth),
			RenderConditional(DimStyle, when))
	}
}

// =============================================================================
// SHOW
// =============================================================================

// HandleShow prints one conversation.
func HandleShow(ctx context.Context, env *Env, args Args) error {
	if args.ConversationID == nil {
		if args.Subcommand != "" {
			return NewValidationErrorWithExample("id", args.Subcommand, "not a conversation id", "ragchat show 12")
		}
		return ErrMissingArgument("id", "ragchat show 12")
	}

	conv, err := env.Client.LoadConversation(ctx, *args.ConversationID)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("show", conv).Fprint(env.out())
	}

	out := env.out()
	p := newPrinter(env)
	if args.Thinking {
		p.showThinking = true
	}

	fmt.Fprintln(out, RenderConditional(TitleStyle, fmt.Sprintf("%s (#%d)", conv.DisplayTitle(), conv.ID)))
	if !args.Quiet {
		fmt.Fprintln(out, RenderConditional(DimStyle, fmt.Sprintf("Created %s, %d messages", formatTime(conv.CreatedAt), conv.MessageCount())))
	}
	for _, msg := range conv.Messages {
		fmt.Fprintln(out)
		header := msg.Role.DisplayName()
		if !msg.Timestamp.IsZero() {
			header += "  " + RenderConditional(DimStyle, formatTime(msg.Timestamp))
		}
		fmt.Fprintln(out, RenderConditional(LabelStyle, header))
		if msg.Role == model.RoleUser {
			fmt.Fprintln(out, msg.Content)
			continue
		}
		p.answer(msg.Content, msg.Sources)
	}
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// HandleDelete deletes one conversation after confirmation.
func HandleDelete(ctx context.Context, env *Env, args Args) error {
	if args.ConversationID == nil {
		if args.Subcommand != "" {
			return NewValidationErrorWithExample("id", args.Subcommand, "not a conversation id", "ragchat delete 12")
		}
		return ErrMissingArgument("id", "ragchat delete 12")
	}
	id := *args.ConversationID

	ok, err := RequireConfirmation(env, args, fmt.Sprintf("delete conversation #%d", id))
	if err != nil {
		return err
	}
	if !ok {
		ShowCancellationMessage(env.out())
		return nil
	}

	if err := env.Client.DeleteConversation(ctx, id); err != nil {
		return err
	}
	env.logger().Info("conversation deleted", zap.Int64("conversation_id", id))

	if args.JSON {
		return NewJSONResponse("delete", DeleteData{ID: id, Deleted: true}).Fprint(env.out())
	}
	fmt.Fprintf(env.out(), "%s Deleted conversation #%d\n", RenderStatus("ok"), id)
	return nil
}
