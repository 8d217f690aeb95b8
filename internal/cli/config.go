// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command.
//
// Command: config [subcommand]
// Aliases: cfg
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show the configuration file location
//   schema              Print the JSON schema
//   init                Write a default configuration file
//   get <key>           Print one value
//   set <key> <value>   Change one value and save
//
// Examples:
//   ragchat config set backend.url http://docs.internal:8000
//   ragchat config set ui.show_thinking true
//   ragchat config set upload.allowed_extensions .pdf,.md,.txt
//   ragchat config get backend.timeout_secs
//   ragchat --config ./team.yaml config show --json
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/ragchat/internal/config"
)

// ConfigSetData is the config set output.
type ConfigSetData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Path  string      `json:"path"`
}

// HandleConfig dispatches the config subcommands.
func HandleConfig(env *Env, args Args) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "show":
		return configShow(env, args)
	case "path":
		return configPath(env, args)
	case "schema":
		return configSchema(env)
	case "init":
		return configInit(env, args)
	case "get":
		return configGet(env, args)
	case "set":
		return configSet(env, args)
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"expected show, path, schema, init, get or set", "ragchat config show")
	}
}

// targetPath is the file config commands read and write.
func targetPath(env *Env) (string, error) {
	if env.ConfigPath != "" {
		return env.ConfigPath, nil
	}
	return config.ActivePath()
}

func configShow(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("config", env.Config).Fprint(env.out())
	}

	cfg := env.Config
	out := env.out()
	fmt.Fprintln(out, RenderConditional(TitleStyle, "ragchat configuration"))

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Backend"))
	fmt.Fprintln(out, RenderField("URL", cfg.Backend.URL))
	fmt.Fprintln(out, RenderField("Timeout", cfg.Backend.Timeout().String()))
	fmt.Fprintln(out, RenderField("Rate limit", fmt.Sprintf("%g/s, burst %d", cfg.Backend.RequestsPerSecond, cfg.Backend.Burst)))
	fmt.Fprintln(out, RenderField("Max response", formatBytes(cfg.Backend.MaxResponseBytes())))
	fmt.Fprintln(out, RenderField("List cache", cfg.Backend.ListCacheTTL().String()))

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Logging"))
	fmt.Fprintln(out, RenderField("Level", cfg.Logging.Level))
	fmt.Fprintln(out, RenderField("Format", cfg.Logging.Format))
	fmt.Fprintln(out, RenderField("File", cfg.Logging.File))

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Telemetry"))
	fmt.Fprintln(out, RenderField("Enabled", enabledLabel(cfg.Telemetry.Enabled)))
	if cfg.Telemetry.Enabled {
		fmt.Fprintln(out, RenderField("Traces", cfg.Telemetry.TraceFile))
		fmt.Fprintln(out, RenderField("Metrics", cfg.Telemetry.MetricsFile))
	}

	fmt.Fprintln(out, RenderConditional(SectionStyle, "UI"))
	fmt.Fprintln(out, RenderField("Theme", cfg.UI.Theme))
	fmt.Fprintln(out, RenderField("Thinking", onOff(cfg.UI.ShowThinking)))
	fmt.Fprintln(out, RenderField("Sources", onOff(cfg.UI.ShowSources)))
	fmt.Fprintln(out, RenderField("Plain", fmt.Sprintf("%t", cfg.UI.Plain)))

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Upload"))
	fmt.Fprintln(out, RenderField("Extensions", strings.Join(cfg.Upload.AllowedExtensions, " ")))
	fmt.Fprintln(out, RenderField("Max size", formatBytes(cfg.Upload.MaxBytes())))
	return nil
}

func configPath(env *Env, args Args) error {
	path, err := targetPath(env)
	if err != nil {
		return ConfigError(err)
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"path":   path,
			"exists": exists,
		}).Fprint(env.out())
	}
	if exists {
		fmt.Fprintln(env.out(), path)
	} else {
		fmt.Fprintf(env.out(), "%s %s\n", path, RenderConditional(DimStyle, "(not created, defaults in use)"))
	}
	return nil
}

func configSchema(env *Env) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.out(), string(data))
	return err
}

func configInit(env *Env, args Args) error {
	path, err := targetPath(env)
	if err != nil {
		return ConfigError(err)
	}
	if _, err := os.Stat(path); err == nil && !args.Yes {
		return NewValidationErrorWithExample("config", path, "file already exists; pass --yes to overwrite", "ragchat config init --yes")
	}

	cfg := config.Default()
	cfg.SetDefaults()
	if err := config.SaveToPath(cfg, path); err != nil {
		return ConfigError(err)
	}
	fmt.Fprintf(env.out(), "%s Wrote %s\n", RenderStatus("ok"), path)
	return nil
}

func configGet(env *Env, args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "ragchat config get backend.url")
	}
	value, err := env.Config.Get(args.ConfigKey)
	if err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": value,
		}).Fprint(env.out())
	}
	if list, ok := value.([]string); ok {
		value = strings.Join(list, ",")
	}
	fmt.Fprintln(env.out(), value)
	return nil
}

func configSet(env *Env, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "ragchat config set backend.url http://localhost:8000")
	}
	if strings.EqualFold(args.ConfigKey, "version") {
		return NewValidationError("key", args.ConfigKey, "version is managed by ragchat")
	}
	if _, err := ParseBoolString(args.ConfigVal); err != nil {
		if v, getErr := env.Config.Get(args.ConfigKey); getErr == nil {
			if _, isBool := v.(bool); isBool {
				return NewValidationErrorWithExample("value", args.ConfigVal, "expected a boolean", "ragchat config set ui.plain true")
			}
		}
	}

	path, err := targetPath(env)
	if err != nil {
		return ConfigError(err)
	}
	cfg, err := config.LoadForEdit(path)
	if err != nil {
		return ConfigError(err)
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return ConfigError(err)
	}
	if err := config.SaveToPath(cfg, path); err != nil {
		return ConfigError(err)
	}

	value, _ := cfg.Get(args.ConfigKey)
	if args.JSON {
		return NewJSONResponse("config", ConfigSetData{Key: args.ConfigKey, Value: value, Path: path}).Fprint(env.out())
	}
	fmt.Fprintf(env.out(), "%s %s = %v (%s)\n", RenderStatus("ok"), args.ConfigKey, value, path)
	return nil
}
