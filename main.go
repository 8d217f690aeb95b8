// ragchat - terminal client for a retrieval-augmented chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragchat/internal/cli"
	"github.com/jeranaias/ragchat/internal/client"
	"github.com/jeranaias/ragchat/internal/config"
	"github.com/jeranaias/ragchat/internal/session"
	"github.com/jeranaias/ragchat/internal/telemetry"
	"github.com/jeranaias/ragchat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	os.Exit(run(cmd, args))
}

// run executes one command and returns the process exit code.
func run(cmd cli.Command, args cli.Args) int {
	switch cmd {
	case cli.CmdHelp:
		if err := cli.HandleHelp(args); err != nil {
			cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
			return cli.GetExitCode(err)
		}
		return cli.ExitSuccess
	case cli.CmdVersion:
		if err := cli.HandleVersion(&cli.Env{}, args); err != nil {
			return cli.ExitGeneralError
		}
		return cli.ExitSuccess
	}

	if args.NoColor || args.Plain {
		cli.ForceColorsEnabled(false)
	}

	cfg, cfgPath, err := loadConfig(args)
	if err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), cli.ConfigError(err), args.JSON)
		return cli.ExitConfigError
	}
	config.SetGlobal(cfg)

	logger, closeLog, err := telemetry.NewLogger(cfg.Logging, args.Debug)
	if err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), cli.ConfigError(err), args.JSON)
		return cli.ExitConfigError
	}
	defer closeLog()
	logger = logger.With(zap.String("command", cmd.String()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Logging, Version)
	if err != nil {
		logger.Warn("telemetry disabled", zap.Error(err))
		provider = telemetry.Noop()
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	tracker := telemetry.NewTracker()
	backend := client.NewFromConfig(cfg.Backend,
		client.WithLogger(logger),
		client.WithTelemetry(provider),
		client.WithTracker(tracker),
		client.WithUserAgent("ragchat/"+Version),
	)

	env := &cli.Env{
		Config:     cfg,
		ConfigPath: cfgPath,
		Client:     backend,
		Logger:     logger,
		Tracker:    tracker,
	}

	logger.Debug("starting", zap.String("backend", backend.BaseURL()), zap.String("config", cfgPath))

	if cmd == cli.CmdTUI {
		err = runTUI(ctx, env)
	} else {
		err = dispatch(ctx, cmd, env, args)
	}
	if err != nil {
		logger.Debug("command failed", zap.Error(err))
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads the explicit --config file or the default location, then
// applies command-line overrides.
func loadConfig(args cli.Args) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if args.ConfigPath != "" {
		path = args.ConfigPath
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
		if p, perr := config.ActivePath(); perr == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if err != nil {
		return nil, "", err
	}

	if args.URL != "" {
		cfg.Backend.URL = args.URL
	}
	if args.Plain {
		cfg.UI.Plain = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// dispatch runs a line-mode command. Interrupts cancel ctx.
func dispatch(ctx context.Context, cmd cli.Command, env *cli.Env, args cli.Args) error {
	if cmd != cli.CmdChat {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	switch cmd {
	case cli.CmdAsk:
		return cli.HandleAsk(ctx, env, args)
	case cli.CmdChat:
		return cli.HandleChat(ctx, env, args)
	case cli.CmdList:
		return cli.HandleList(ctx, env, args)
	case cli.CmdShow:
		return cli.HandleShow(ctx, env, args)
	case cli.CmdDelete:
		return cli.HandleDelete(ctx, env, args)
	case cli.CmdUpload:
		return cli.HandleUpload(ctx, env, args)
	case cli.CmdStatus:
		return cli.HandleStatus(ctx, env, args)
	case cli.CmdConfig:
		return cli.HandleConfig(env, args)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

// runTUI starts the full-screen interface and reloads settings when the
// config file changes.
func runTUI(ctx context.Context, env *cli.Env) error {
	sess := session.NewManager(env.Client, session.WithLogger(env.Logger))
	m := chat.New(chat.Options{
		Context: ctx,
		Backend: env.Client,
		Session: sess,
		Config:  env.Config,
		Logger:  env.Logger,
		Tracker: env.Tracker,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	stopForward := sess.Forward(p.Send)
	defer stopForward()

	if env.ConfigPath != "" {
		stopWatch, err := config.Watch(ctx, env.ConfigPath, func(cfg *config.Config, err error) {
			if err == nil {
				config.SetGlobal(cfg)
			}
			p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			env.Logger.Warn("config watch unavailable", zap.Error(err))
		} else {
			defer stopWatch()
		}
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
