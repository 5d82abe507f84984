package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/multh-go/internal/cli/output"
	"github.com/yndnr/multh-go/internal/config"
	"github.com/yndnr/multh-go/internal/infra/buildinfo"
	"github.com/yndnr/multh-go/internal/telemetry/logger"
)

const envKey = "env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "multh",
		Usage:   "Run and measure cyclic work pools and sharded maps",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PoolCommand(),
			MapCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: setup,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"MULTH_CONFIG"},
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Override a configuration key, e.g. --set pool.workers=8",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config    string
	Set       []string
	LogLevel  string
	LogFormat string
	Output    string
	Wide      bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:    c.String("config"),
		Set:       c.StringSlice("set"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
		Output:    c.String("output"),
		Wide:      c.Bool("wide"),
	}
}

// Env is the per-invocation state built by the Before hook.
type Env struct {
	Config     *config.Config
	ConfigPath string

	// Overrides are the dotted keys from --set and the log flags, kept to
	// rebuild the configuration on reload.
	Overrides map[string]any

	Format output.Format
	Wide   bool
	Logger logger.Logger
	RunID  string

	Out io.Writer
	Err io.Writer
}

// setup loads the configuration and the logger for every command.
func setup(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}

	overrides, err := parseOverrides(flags.Set)
	if err != nil {
		return err
	}
	if flags.LogLevel != "" {
		overrides["log.level"] = flags.LogLevel
	}
	if flags.LogFormat != "" {
		overrides["log.format"] = flags.LogFormat
	}

	cfg, err := config.Load(flags.Config, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	errWriter := c.App.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	log, err := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Output:    errWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	outWriter := c.App.Writer
	if outWriter == nil {
		outWriter = os.Stdout
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[envKey] = &Env{
		Config:     cfg,
		ConfigPath: flags.Config,
		Overrides:  overrides,
		Format:     format,
		Wide:       flags.Wide,
		Logger:     log,
		RunID:      logger.NewRunID(),
		Out:        outWriter,
		Err:        errWriter,
	}
	return nil
}

// parseOverrides turns KEY=VALUE pairs into a dotted-key map.
func parseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want KEY=VALUE", p)
		}
		out[strings.ToLower(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// GetEnv retrieves the environment built by the Before hook.
func GetEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env
	}
	return nil
}

// Context returns the command context carrying the run ID and logger.
func (e *Env) Context(c *cli.Context) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, e.Logger)
	return logger.WithRunID(ctx, e.RunID)
}

// Print renders report, followed in table mode by each detail as its own
// table. JSON and YAML output contain report only.
func (e *Env) Print(report any, details ...any) error {
	f := output.NewFormatter(e.Format, e.Wide)
	if err := f.Format(e.Out, report); err != nil {
		return err
	}
	if e.Format != output.FormatTable {
		return nil
	}
	for _, d := range details {
		fmt.Fprintln(e.Out)
		if err := f.Format(e.Out, d); err != nil {
			return err
		}
	}
	return nil
}

// Interactive reports whether progress output should be drawn.
func (e *Env) Interactive() bool {
	if e.Format != output.FormatTable {
		return false
	}
	f, ok := e.Err.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}
