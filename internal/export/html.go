// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/thinking"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page with embedded
// CSS. Message bodies are rendered as Markdown; raw HTML in them is dropped.
type HTMLExporter struct {
	options  *Options
	markdown goldmark.Markdown
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{
		options:  opts,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	title := html.EscapeString(conv.DisplayTitle())
	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", title))
	sb.WriteString("    <meta name=\"generator\" content=\"ragchat\">\n")
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", title))
	if e.options.IncludeMetadata {
		sb.WriteString(e.renderMetadata(conv))
	}
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		body, err := e.renderMessage(msg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(body)
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>ragchat</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMetadata(conv *model.Conversation) string {
	var sb strings.Builder
	sb.WriteString("            <div class=\"metadata\">\n")
	if conv.ID > 0 {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Conversation:</strong> #%d</span>\n", conv.ID))
	}
	if !conv.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(conv.CreatedAt)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(conv.Messages)))
	sb.WriteString("            </div>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.Message) (string, error) {
	var sb strings.Builder

	class := string(msg.Role)
	if msg.Failed {
		class += " failed"
	}
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", class))

	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", html.EscapeString(msg.Role.DisplayName())))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	content := msg.Content
	if msg.Role == model.RoleAssistant && !msg.Failed {
		seg := thinking.Parse(content)
		if seg.HasThinking && e.options.IncludeThinking && seg.Thinking != "" {
			sb.WriteString("                <details class=\"thinking\">\n")
			sb.WriteString("                    <summary>Reasoning</summary>\n")
			sb.WriteString(fmt.Sprintf("                    <pre>%s</pre>\n", html.EscapeString(seg.Thinking)))
			sb.WriteString("                </details>\n")
		}
		content = seg.Main
	}

	sb.WriteString("                <div class=\"message-content\">\n")
	if msg.Role == model.RoleUser || msg.Failed {
		sb.WriteString(fmt.Sprintf("<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(strings.TrimSpace(content)), "\n", "<br>")))
	} else {
		var buf bytes.Buffer
		if err := e.markdown.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("render message %s: %w", msg.ID, err)
		}
		sb.Write(buf.Bytes())
	}
	sb.WriteString("                </div>\n")

	if e.options.IncludeSources && msg.HasSources() {
		sb.WriteString("                <ol class=\"sources\">\n")
		for _, src := range msg.Sources {
			excerpt := util.TruncateRunes(util.SingleLine(src.Content), sourceExcerptRunes)
			sb.WriteString(fmt.Sprintf("                    <li><span class=\"source-label\">%s</span> %s</li>\n",
				html.EscapeString(src.Label()), html.EscapeString(excerpt)))
		}
		sb.WriteString("                </ol>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String(), nil
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const pageCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg: #0f172a; --surface: #1e293b; --text: #e2e8f0; --muted: #94a3b8;
            --accent: #22d3ee; --user: #10b981; --error: #fb7185; --border: #334155;
        }

        .light-theme {
            --bg: #f8fafc; --surface: #ffffff; --text: #0f172a; --muted: #64748b;
            --accent: #0891b2; --user: #059669; --error: #e11d48; --border: #e2e8f0;
        }

        body { font-family: var(--font-sans); background: var(--bg); color: var(--text); line-height: 1.6; }
        .container { max-width: 860px; margin: 0 auto; padding: 2rem 1rem; }
        .header { border-bottom: 1px solid var(--border); padding-bottom: 1rem; margin-bottom: 1.5rem; }
        .header h1 { font-size: 1.6rem; color: var(--accent); }
        .metadata { display: flex; gap: 1.25rem; flex-wrap: wrap; color: var(--muted); font-size: 0.85rem; margin-top: 0.5rem; }
        .message { background: var(--surface); border: 1px solid var(--border); border-radius: 8px; padding: 1rem 1.25rem; margin-bottom: 1rem; }
        .user-message { border-left: 3px solid var(--user); }
        .assistant-message { border-left: 3px solid var(--accent); }
        .failed { border-left-color: var(--error); color: var(--error); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 0.5rem; font-weight: 600; }
        .timestamp { color: var(--muted); font-weight: 400; font-size: 0.8rem; }
        .message-content p { margin: 0.5rem 0; }
        .message-content ul, .message-content ol { margin: 0.5rem 0 0.5rem 1.5rem; }
        .message-content pre { background: var(--bg); padding: 0.75rem; border-radius: 6px; overflow-x: auto; }
        code { font-family: var(--font-mono); font-size: 0.9em; }
        .thinking { color: var(--muted); margin-bottom: 0.5rem; }
        .thinking pre { white-space: pre-wrap; font-family: var(--font-sans); font-style: italic; padding: 0.5rem 0; }
        .sources { margin: 0.75rem 0 0 1.5rem; font-size: 0.85rem; color: var(--muted); }
        .source-label { color: var(--accent); font-weight: 600; }
        .footer { text-align: center; color: var(--muted); font-size: 0.8rem; margin-top: 2rem; }
    </style>
`
