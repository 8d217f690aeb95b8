// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive line-mode chat.
//
// Command: chat
// Aliases: repl
//
// Examples:
//   ragchat chat                 Start a new conversation
//   ragchat chat -c 12           Continue conversation 12
//
// Interactive Commands:
//   /help, /h            Show available commands
//   /new, /n             Start a new conversation
//   /load <id>           Switch to a saved conversation
//   /list, /ls           List saved conversations
//   /upload <file>       Add a document to the knowledge base
//   /export [file]       Write the transcript (.md, .json, .html)
//   /thinking            Toggle thinking segments
//   /sources             Toggle cited sources
//   /status, /s          Show session status
//   /quit, /q            Exit
//   Ctrl+C               Cancel the request in flight, or exit at the prompt
//   Ctrl+D               Exit
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/export"
	"github.com/jeranaias/ragchat/internal/model"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/util"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of input per prompt. It returns io.EOF when the
// input ends and liner.ErrPromptAborted on Ctrl+C at the prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// historyReader provides line editing and persistent history on a terminal.
type historyReader struct {
	line        *liner.State
	historyFile string
}

func newHistoryReader(historyFile string) *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &historyReader{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *historyReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history (owner read/write only) and restores the terminal.
func (r *historyReader) Close() error {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// scanReader reads lines from a non-terminal input such as a pipe.
type scanReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newScanReader(in io.Reader, out io.Writer) *scanReader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), MaxStdinQuery)
	return &scanReader{sc: sc, out: out}
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		fmt.Fprintln(r.out)
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scanReader) Close() error { return nil }

// =============================================================================
// REPL
// =============================================================================

// repl is one interactive chat session.
type repl struct {
	env     *Env
	args    Args
	session *session.Manager
	printer *printer
	reader  lineReader
	out     io.Writer
	logger  *zap.Logger
}

// replCommand handles one slash command. It returns false to exit.
type replCommand struct {
	handler func(r *repl, ctx context.Context, args []string) bool
	usage   string
	desc    string
}

var replCommands map[string]replCommand

func init() {
	replCommands = map[string]replCommand{
		"help":     {handler: (*repl).cmdHelp, usage: "/help", desc: "Show available commands"},
		"new":      {handler: (*repl).cmdNew, usage: "/new", desc: "Start a new conversation"},
		"load":     {handler: (*repl).cmdLoad, usage: "/load <id>", desc: "Switch to a saved conversation"},
		"list":     {handler: (*repl).cmdList, usage: "/list", desc: "List saved conversations"},
		"upload":   {handler: (*repl).cmdUpload, usage: "/upload <file>", desc: "Add a document to the knowledge base"},
		"export":   {handler: (*repl).cmdExport, usage: "/export [file]", desc: "Write the transcript (.md, .json, .html)"},
		"thinking": {handler: (*repl).cmdThinking, usage: "/thinking", desc: "Toggle thinking segments"},
		"sources":  {handler: (*repl).cmdSources, usage: "/sources", desc: "Toggle cited sources"},
		"status":   {handler: (*repl).cmdStatus, usage: "/status", desc: "Show session status"},
		"quit":     {handler: (*repl).cmdQuit, usage: "/quit", desc: "Exit"},
	}
	replCommands["h"] = replCommands["help"]
	replCommands["n"] = replCommands["new"]
	replCommands["ls"] = replCommands["list"]
	replCommands["s"] = replCommands["status"]
	replCommands["q"] = replCommands["quit"]
	replCommands["exit"] = replCommands["quit"]
}

// HandleChat runs the interactive chat loop until the input ends or the
// user quits.
func HandleChat(ctx context.Context, env *Env, args Args) error {
	var reader lineReader
	if env.In == nil && IsTTY() {
		reader = newHistoryReader(historyFile())
	} else {
		reader = newScanReader(env.in(), env.out())
	}
	return runChat(ctx, env, args, reader)
}

func historyFile() string {
	path, err := config.HistoryPath()
	if err != nil {
		return filepath.Join(os.TempDir(), "ragchat_history")
	}
	return path
}

func runChat(ctx context.Context, env *Env, args Args, reader lineReader) error {
	defer reader.Close()

	r := &repl{
		env:     env,
		args:    args,
		session: session.NewManager(env.Client, session.WithLogger(env.logger())),
		printer: newPrinter(env),
		reader:  reader,
		out:     env.out(),
		logger:  env.logger().Named("repl"),
	}
	if args.Thinking {
		r.printer.showThinking = true
	}

	if !args.Quiet {
		r.printWelcome()
	}
	if args.ConversationID != nil {
		r.load(ctx, *args.ConversationID)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := r.reader.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				r.printExitSummary()
				return nil
			}
			return NewCommandError("chat", "read", "could not read input", err)
		}

		input = util.NormalizeText(input)
		line := strings.TrimSpace(input)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if !r.runCommand(ctx, line) {
				r.printExitSummary()
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			r.printExitSummary()
			return nil
		}
		r.send(ctx, input)
	}
}

func (r *repl) prompt() string {
	if id := r.session.Snapshot().ConversationID; id != nil {
		return RenderConditional(PromptStyle, fmt.Sprintf("#%d> ", *id))
	}
	return RenderConditional(PromptStyle, "ragchat> ")
}

// interruptible returns a context that Ctrl+C cancels for one request.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

func (r *repl) send(ctx context.Context, text string) {
	reqCtx, stop := interruptible(ctx)
	res := r.session.SendMessage(reqCtx, text)
	cancelled := reqCtx.Err() != nil && ctx.Err() == nil
	stop()

	switch res.Outcome {
	case session.SendApplied:
		fmt.Fprintln(r.out)
		r.printer.answer(res.Reply.Content, res.Reply.Sources)
		fmt.Fprintln(r.out)
	case session.SendFailed:
		if cancelled {
			fmt.Fprintln(r.out, RenderConditional(WarningStyle, "[Cancelled]"))
			return
		}
		r.printer.failure(res.Err)
	case session.SendDiscarded:
		r.logger.Debug("reply discarded", zap.Error(res.Err))
	case session.SendSkipped:
		fmt.Fprintln(r.out, RenderConditional(WarningStyle, "Wait for the current answer"))
	}
}

func (r *repl) load(ctx context.Context, id int64) {
	reqCtx, stop := interruptible(ctx)
	defer stop()

	if err := r.session.LoadConversation(reqCtx, id); err != nil {
		if errors.Is(err, session.ErrStale) {
			return
		}
		fmt.Fprintf(r.out, "%s %s\n", RenderConditional(ErrorStyle, "[Error]"), describeError(err))
		return
	}

	state := r.session.Snapshot()
	fmt.Fprintf(r.out, "%s %s (%d messages)\n",
		RenderConditional(SuccessStyle, fmt.Sprintf("Loaded #%d", id)),
		state.DisplayTitle(), len(state.Messages))
	r.printTranscript(state.Messages)
}

func (r *repl) printTranscript(msgs []*model.Message) {
	for _, msg := range msgs {
		fmt.Fprintln(r.out)
		if msg.Role == model.RoleUser {
			fmt.Fprintf(r.out, "%s %s\n", RenderConditional(LabelStyle, msg.Role.DisplayName()+":"), msg.Content)
			continue
		}
		fmt.Fprintln(r.out, RenderConditional(LabelStyle, msg.Role.DisplayName()+":"))
		if msg.Failed {
			fmt.Fprintln(r.out, RenderConditional(ErrorStyle, msg.Content))
			continue
		}
		r.printer.answer(msg.Content, msg.Sources)
	}
	if len(msgs) > 0 {
		fmt.Fprintln(r.out)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (r *repl) runCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return true
	}
	name := strings.ToLower(fields[0])
	cmd, ok := replCommands[name]
	if !ok {
		fmt.Fprintf(r.out, "%s Unknown command /%s, try /help\n", RenderConditional(WarningStyle, "[Warning]"), name)
		return true
	}
	return cmd.handler(r, ctx, fields[1:])
}

func (r *repl) cmdHelp(_ context.Context, _ []string) bool {
	seen := make(map[string]bool)
	var lines []string
	for _, cmd := range replCommands {
		if seen[cmd.usage] {
			continue
		}
		seen[cmd.usage] = true
		lines = append(lines, fmt.Sprintf("  %-16s %s", cmd.usage, cmd.desc))
	}
	sort.Strings(lines)
	fmt.Fprintln(r.out, RenderConditional(SectionStyle.UnsetMarginTop(), "Commands"))
	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
	return true
}

func (r *repl) cmdNew(_ context.Context, _ []string) bool {
	r.session.StartNewConversation()
	fmt.Fprintln(r.out, RenderConditional(InfoStyle, "Started a new conversation"))
	return true
}

func (r *repl) cmdLoad(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(r.out, RenderConditional(WarningStyle, "Usage: /load <id>"))
		return true
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", RenderConditional(ErrorStyle, "[Error]"), err)
		return true
	}
	r.load(ctx, id)
	return true
}

func (r *repl) cmdList(ctx context.Context, _ []string) bool {
	convs, err := r.env.Client.ListConversations(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "%s %s\n", RenderConditional(ErrorStyle, "[Error]"), describeError(err))
		return true
	}
	printConversationTable(r.out, convs, r.session.Snapshot().ConversationID)
	return true
}

func (r *repl) cmdUpload(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(r.out, RenderConditional(WarningStyle, "Usage: /upload <file>"))
		return true
	}
	path := expandPath(strings.Join(args, " "))
	reqCtx, stop := interruptible(ctx)
	defer stop()

	res, err := r.env.Client.UploadDocument(reqCtx, path, uploadOptions(r.env.Config))
	if err != nil {
		fmt.Fprintf(r.out, "%s %s\n", RenderConditional(ErrorStyle, "[Error]"), describeError(err))
		return true
	}
	fmt.Fprintf(r.out, "%s %s\n", RenderStatus("ok"), uploadSummary(res))
	return true
}

func (r *repl) cmdExport(_ context.Context, args []string) bool {
	state := r.session.Snapshot()
	if len(state.Messages) == 0 {
		fmt.Fprintln(r.out, RenderConditional(WarningStyle, "Nothing to export"))
		return true
	}
	conv := &model.Conversation{Title: state.Title, Messages: state.Messages}
	if state.ConversationID != nil {
		conv.ID = *state.ConversationID
	}

	opts := export.DefaultOptions()
	opts.IncludeThinking = r.printer.showThinking
	opts.IncludeSources = r.printer.showSources

	path := ""
	if len(args) > 0 {
		path = expandPath(strings.Join(args, " "))
	}
	exporter, err := export.ForPath(path, opts)
	if err == nil {
		path, err = export.ExportToFile(conv, exporter, path)
	}
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", RenderConditional(ErrorStyle, "[Error]"), err)
		return true
	}
	fmt.Fprintf(r.out, "%s Exported to %s\n", RenderStatus("ok"), path)
	return true
}

func (r *repl) cmdThinking(_ context.Context, _ []string) bool {
	r.printer.showThinking = !r.printer.showThinking
	fmt.Fprintf(r.out, "Thinking %s\n", onOff(r.printer.showThinking))
	return true
}

func (r *repl) cmdSources(_ context.Context, _ []string) bool {
	r.printer.showSources = !r.printer.showSources
	fmt.Fprintf(r.out, "Sources %s\n", onOff(r.printer.showSources))
	return true
}

func (r *repl) cmdStatus(_ context.Context, _ []string) bool {
	st := r.session.GetStatus()
	id := "unsaved"
	if st.ConversationID != nil {
		id = fmt.Sprintf("#%d", *st.ConversationID)
	}
	fmt.Fprintln(r.out, RenderField("Conversation", fmt.Sprintf("%s (%s)", st.Title, id)))
	fmt.Fprintln(r.out, RenderField("Messages", fmt.Sprintf("%d", st.Messages)))
	fmt.Fprintln(r.out, RenderField("Session", session.FormatDuration(st.Duration)))
	fmt.Fprintln(r.out, RenderField("Backend", r.env.Client.BaseURL()))
	if r.env.Tracker != nil {
		fmt.Fprintln(r.out, RenderField("Requests", r.env.Tracker.Current().Summary()))
	}
	return true
}

func (r *repl) cmdQuit(_ context.Context, _ []string) bool {
	return false
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *repl) printWelcome() {
	fmt.Fprintln(r.out, RenderConditional(TitleStyle, "ragchat"))
	fmt.Fprintln(r.out, RenderConditional(DimStyle, "Connected to "+r.env.Client.BaseURL()))
	fmt.Fprintln(r.out, RenderConditional(DimStyle, "Ask about your documents. Type /help for commands, /quit to exit."))
	fmt.Fprintln(r.out)
}

func (r *repl) printExitSummary() {
	if r.args.Quiet {
		return
	}
	st := r.session.GetStatus()
	fmt.Fprintf(r.out, "%s %d messages in %s\n",
		RenderConditional(DimStyle, "Session ended:"), st.Messages, session.FormatDuration(st.Duration))
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func uploadOptions(cfg *config.Config) client.UploadOptions {
	return client.UploadOptions{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxBytes:          cfg.Upload.MaxBytes(),
	}
}

func uploadSummary(res *client.UploadResult) string {
	if res.Message != "" {
		return fmt.Sprintf("Uploaded %s: %s", res.Filename, res.Message)
	}
	return "Uploaded " + res.Filename
}

// expandPath resolves a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func onOff(on bool) string {
	if on {
		return "shown"
	}
	return "hidden"
}
