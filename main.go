package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/formatter"
	"github.com/mcncl/dartyper/internal/generator"
	"github.com/mcncl/dartyper/internal/models"
	"github.com/mcncl/dartyper/internal/parser"
	"github.com/mcncl/dartyper/internal/watcher"
	"github.com/mcncl/dartyper/internal/writer"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path" env:"DARTYPER_INPUT"`
	Output      string `help:"Directory to write .dart files into. If not specified, writes to stdout." short:"o" type:"path" env:"DARTYPER_OUTPUT"`
	ClassName   string `help:"Name of the root class." short:"c" env:"DARTYPER_CLASS_NAME"`
	Config      string `help:"Path to configuration file." type:"path" env:"DARTYPER_CONFIG"`
	Kind        string `help:"Which classes to emit: all, entity or model. Defaults to the config file, then all." short:"k" env:"DARTYPER_KIND"`
	Format      bool   `help:"Apply the spacing pass to the generated code." short:"f" default:"true" negatable:""`
	Watch       bool   `help:"Regenerate whenever the input file changes." short:"w"`
	Debug       bool   `help:"Enable debug logging." short:"d" env:"DARTYPER_DEBUG"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// .env is loaded before parsing so kong's env tags can see it
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load .env", err)))
		os.Exit(1)
	}

	cli := kong.Must(&CLI,
		kong.Name("dartyper"),
		kong.Description("A tool to convert JSON to Dart entity and model classes"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cli.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("dartyper version %s\n", Version)
		return
	}

	rc, err := newContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rc); err != nil {
		rc.Logger.Debug("run failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: dartyper --help\n")
		stop()
		os.Exit(1)
	}
}

// newContext resolves the configuration and sets up logging
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		ClassName: CLI.ClassName,
		OutputDir: CLI.Output,
		Kind:      CLI.Kind,
		Debug:     CLI.Debug,
	}
	if !CLI.Format {
		off := false
		overrides.Format = &off
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		if configPath == "" {
			return nil, errors.NewConfigError(err.Error(), err)
		}
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load config '%s'", configPath), err)
	}

	logger := newLogger(os.Stderr, cfg.Dev.Debug)
	slog.SetDefault(logger)
	if configPath != "" {
		logger.Debug("loaded config file", "path", configPath)
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
	}, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the main program logic
func run(ctx context.Context, rc *Context) error {
	if rc.Config == nil {
		rc.Config = config.NewConfig()
	}
	if rc.Logger == nil {
		rc.Logger = slog.Default()
	}
	if rc.Out == nil {
		rc.Out = os.Stdout
	}

	if !CLI.Watch {
		return generateOnce(ctx, rc)
	}

	if CLI.Input == "" {
		return errors.NewWatchError("no input file to watch", errors.ErrWatchNeedsFile)
	}

	// A broken first input is reported but does not stop the watch
	if err := generateOnce(ctx, rc); err != nil {
		rc.Logger.Error(errors.UserFriendlyError(err))
	}

	w := watcher.New(CLI.Input, func(ctx context.Context) error {
		if err := generateOnce(ctx, rc); err != nil {
			return fmt.Errorf("%s", errors.UserFriendlyError(err))
		}
		return nil
	})
	w.Logger = rc.Logger
	rc.Logger.Info("watching for changes", "path", CLI.Input)
	return w.Run(ctx)
}

// generateOnce runs parse, generate, format and output a single time
func generateOnce(ctx context.Context, rc *Context) error {
	cfg := rc.Config

	// Interactive mode prompts for a missing class name while reading input
	if strings.TrimSpace(cfg.ClassName) == "" && !promptsForInput() {
		return errors.NewInputError("class name is required", errors.ErrEmptyClassName)
	}

	// 1. Parse JSON input
	ir, err := parseInput(rc)
	if err != nil {
		return err
	}

	// 2. Generate the Entity/Model pairs
	gen := generator.NewGeneratorWithConfig(cfg)
	codes, err := gen.Generate(ir, cfg.ClassName)
	if err != nil {
		return err
	}
	rc.Logger.Debug("generated records", "class", cfg.ClassName, "count", len(codes))

	// 3. Output, formatted if requested
	var transform writer.Transform
	if cfg.Formatting.Enabled {
		transform = formatter.NewFormatter().Format
	}
	return writeOutput(ctx, rc, codes, transform)
}

// promptsForInput reports whether parseInput will read from an interactive terminal
func promptsForInput() bool {
	if CLI.Input != "" || !CLI.Interactive {
		return false
	}
	stdinInfo, err := os.Stdin.Stat()
	return err == nil && (stdinInfo.Mode()&os.ModeCharDevice) != 0
}

// parseInput reads JSON from file or stdin
func parseInput(rc *Context) (models.IntermediateRepresentation, error) {
	if CLI.Input != "" {
		rc.Logger.Debug("reading input", "source", CLI.Input)
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput(rc, os.Stdin, os.Stderr)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	rc.Logger.Debug("reading input", "source", "stdin")
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the records into the output directory or to stdout
func writeOutput(ctx context.Context, rc *Context, codes []models.GeneratedCode, transform writer.Transform) error {
	cfg := rc.Config

	if cfg.Output.Dir == "" {
		if err := writer.Print(rc.Out, codes, cfg.Output.Kinds, transform); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	paths, err := writer.New(cfg.Output.Dir).
		WithWorkers(cfg.Output.Workers).
		WithTransform(transform).
		Write(ctx, codes, cfg.Output.Kinds)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to directory '%s'", cfg.Output.Dir), err)
	}
	for _, path := range paths {
		rc.Logger.Debug("wrote file", "path", path)
	}
	fmt.Fprintf(os.Stderr, "Generated %d Dart files in %s\n", len(paths), cfg.Output.Dir)
	return nil
}

// readInteractiveInput asks for a class name when none is configured, then
// reads pasted JSON until Ctrl+D (EOF)
func readInteractiveInput(rc *Context, in io.Reader, prompt io.Writer) (models.IntermediateRepresentation, error) {
	_, _ = fmt.Fprintln(prompt, "DarTyper Interactive Mode")

	reader := bufio.NewReader(in)

	if strings.TrimSpace(rc.Config.ClassName) == "" {
		_, _ = fmt.Fprint(prompt, "Class name: ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading class name", err)
		}
		rc.Config.ClassName = strings.TrimSpace(line)
		if rc.Config.ClassName == "" {
			return models.IntermediateRepresentation{}, errors.NewInputError("class name is required", errors.ErrEmptyClassName)
		}
	}

	_, _ = fmt.Fprintln(prompt, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	jsonData, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
	}
	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	_, _ = fmt.Fprintln(prompt, "\nProcessing JSON...")
	return parser.ParseString(string(jsonData))
}
