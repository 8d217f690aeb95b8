// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/thinking"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// ANSWER PRINTER
// =============================================================================

// printer writes assistant answers for line-mode commands.
type printer struct {
	out          io.Writer
	width        int
	showThinking bool
	showSources  bool
	md           *glamour.TermRenderer
}

// newPrinter renders markdown only when writing to a terminal.
func newPrinter(env *Env) *printer {
	cfg := env.Config
	p := &printer{
		out:          env.out(),
		width:        GetTerminalWidth(),
		showThinking: cfg.UI.ShowThinking,
		showSources:  cfg.UI.ShowSources,
	}
	if cfg.UI.WordWrap > 0 && cfg.UI.WordWrap < p.width {
		p.width = cfg.UI.WordWrap
	}
	if env.Out == nil && IsStdoutTTY() && !cfg.UI.Plain && ColorsEnabled() {
		styleOpt := glamour.WithAutoStyle()
		switch cfg.UI.Theme {
		case "dark", "light":
			styleOpt = glamour.WithStandardStyle(cfg.UI.Theme)
		}
		if r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(p.width-2)); err == nil {
			p.md = r
		} else {
			env.logger().Debug("markdown renderer unavailable")
		}
	}
	return p
}

// render returns markdown for display, raw when rendering is off or fails.
func (p *printer) render(text string) string {
	if p.md == nil {
		return text
	}
	out, err := p.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// answer prints an assistant reply with its thinking and sources.
func (p *printer) answer(content string, sources []model.Source) {
	seg := thinking.Parse(content)
	if seg.HasThinking && p.showThinking && seg.Thinking != "" {
		fmt.Fprintln(p.out, RenderConditional(DimStyle, "thinking:"))
		fmt.Fprintln(p.out, RenderConditional(DimStyle, WrapText(seg.Thinking, p.width)))
		fmt.Fprintln(p.out)
	}
	fmt.Fprintln(p.out, p.render(seg.Main))
	if p.showSources && len(sources) > 0 {
		p.sources(sources)
	}
}

// sources prints a numbered list of cited passages.
func (p *printer) sources(sources []model.Source) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, RenderConditional(SectionStyle.UnsetMarginTop(), fmt.Sprintf("Sources (%d)", len(sources))))
	excerptWidth := p.width - 8
	if excerptWidth < 20 {
		excerptWidth = 20
	}
	for i, src := range sources {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, RenderConditional(SourceStyle, src.Label()))
		if excerpt := util.TruncateWidth(util.SingleLine(src.Content), excerptWidth); excerpt != "" {
			fmt.Fprintf(p.out, "     %s\n", RenderConditional(DimStyle, excerpt))
		}
	}
}

// failure prints the error placeholder for a failed exchange.
func (p *printer) failure(err error) {
	fmt.Fprintln(p.out, RenderConditional(ErrorStyle, model.ErrorReply))
	if err != nil {
		fmt.Fprintln(p.out, RenderConditional(DimStyle, describeError(err)))
	}
}

// =============================================================================
// FORMATTING
// =============================================================================

// formatTime renders t in local time, or "-" when unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatBytes formats bytes in human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
