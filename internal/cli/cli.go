// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for ragchat.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/telemetry"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdList
	CmdShow
	CmdDelete
	CmdUpload
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name used in JSON output.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdList:
		return "list"
	case CmdShow:
		return "show"
	case CmdDelete:
		return "delete"
	case CmdUpload:
		return "upload"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	URL        string // Overrides backend.url
	ConfigPath string // Explicit config file
	Plain      bool   // No markdown, no colors
	NoColor    bool
	Debug      bool
	Quiet      bool
	JSON       bool
	Yes        bool // Skip confirmation prompts

	// Command-specific
	Query          string
	ConversationID *int64
	Thinking       bool
	Refresh        bool
	Subcommand     string
	ConfigKey      string
	ConfigVal      string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `ragchat - terminal client for a retrieval-augmented chat service

Usage:
  ragchat                          Start the TUI (default)
  ragchat ask "question"           Ask a single question
  ragchat chat                     Interactive line-mode chat
  ragchat list                     List saved conversations
  ragchat show <id>                Print a conversation
  ragchat delete <id>              Delete a conversation
  ragchat upload <file>...         Add documents to the knowledge base
  ragchat status                   Check the backend and show settings
  ragchat config [subcommand]      Configuration
  ragchat version                  Show version
  ragchat help                     Show this help

Ask and Chat Options:
  -c, --conversation ID            Continue an existing conversation
  --thinking                       Print the thinking segment too

List Options:
  --refresh                        Bypass the list cache

Show Options:
  --thinking                       Include thinking segments

Config Commands:
  ragchat config show              Display the configuration
  ragchat config path              Show the config file location
  ragchat config schema            Print the JSON schema
  ragchat config init              Write a default config file
  ragchat config get <key>         Print one value (e.g. backend.url)
  ragchat config set <key> <value> Change one value

Chat Commands (inside ragchat chat):
  /new, /load <id>, /list, /upload <file>, /export [file],
  /thinking, /sources, /status, /help, /quit

Global Flags:
  --url URL          Chat service base URL (env RAGCHAT_URL)
  --config FILE      Config file (TOML, JSON or YAML)
  --plain            Plain text output, no markdown or colors
  --no-color         Disable colors
  --debug            Debug logging
  -q, --quiet        Minimal output
  --json             JSON output
  -y, --yes          Do not ask for confirmation

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses a command line without the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask", "a":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat", "repl":
		parseAskArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "list", "ls", "conversations":
		p := NewArgParser(remaining, "refresh")
		parsedArgs.Refresh = p.BoolFlag("refresh")
		return CmdList, parsedArgs

	case "show", "cat":
		parseIDArgs(&parsedArgs, remaining)
		return CmdShow, parsedArgs

	case "delete", "rm":
		parseIDArgs(&parsedArgs, remaining)
		return CmdDelete, parsedArgs

	case "upload", "add":
		parsedArgs.Raw = NewArgParser(remaining).PositionalFrom(0)
		return CmdUpload, parsedArgs

	case "status", "s", "ping":
		return CmdStatus, parsedArgs

	case "config", "cfg":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--plain":
			parsedArgs.Plain = true
		case "--no-color":
			parsedArgs.NoColor = true
		case "--debug":
			parsedArgs.Debug = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		case "-y", "--yes", "--confirm":
			parsedArgs.Yes = true
		case "--url":
			if i+1 < len(args) {
				i++
				parsedArgs.URL = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--url="):
				parsedArgs.URL = strings.TrimPrefix(arg, "--url=")
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-c", "--conversation":
			if i+1 < len(remaining) {
				i++
				if id, err := parseID(remaining[i]); err == nil {
					args.ConversationID = &id
				}
			}
		case "--thinking":
			args.Thinking = true
		default:
			if strings.HasPrefix(arg, "--conversation=") {
				if id, err := parseID(strings.TrimPrefix(arg, "--conversation=")); err == nil {
					args.ConversationID = &id
				}
			} else {
				query = append(query, arg)
			}
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseIDArgs parses "<id> [--thinking]".
func parseIDArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "thinking")
	args.Thinking = p.BoolFlag("thinking")
	if sub := p.Subcommand(); sub != "" {
		args.Subcommand = sub
		if id, err := parseID(sub); err == nil {
			args.ConversationID = &id
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env carries the dependencies shared by every command.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Client     *client.Client
	Logger     *zap.Logger
	Tracker    *telemetry.Tracker

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (e *Env) in() io.Reader {
	if e.In == nil {
		return os.Stdin
	}
	return e.In
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Env) errOut() io.Writer {
	if e.Err == nil {
		return os.Stderr
	}
	return e.Err
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersion prints version information.
func HandleVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Fprint(env.out())
	}
	fmt.Fprintf(env.out(), "ragchat %s (%s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
	return nil
}

// HandleHelp prints usage. An unknown command is reported first.
func HandleHelp(args Args) error {
	if len(args.Raw) > 0 {
		PrintUsage()
		return ErrUnknownCommand(args.Raw[0])
	}
	PrintUsage()
	return nil
}
