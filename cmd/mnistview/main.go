// mnistview decodes an MNIST label file and image file in IDX format and
// draws them on the terminal, either as one averaged composite per label,
// as the first few raw images, or as a per-label statistics table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"mnistview/pkg/config"
	"mnistview/pkg/idx"
	"mnistview/pkg/render"
)

// UsageError reports a command line with the wrong number of positional arguments
type UsageError struct {
	Args int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected arguments <labels-file> <image-file>, got %d", e.Args)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		mode       string
		limit      int
		color      string
		exportDir  string
		logLevel   string
	)

	flagSet := pflag.NewFlagSet("mnistview", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&mode, "mode", config.ModeAverage, "display mode: average, raw or summary")
	flagSet.IntVar(&limit, "limit", 10, "number of images drawn in raw mode")
	flagSet.StringVar(&color, "color", render.ColorTrue, "color mode: truecolor, ansi256, ansi, ascii or auto")
	flagSet.StringVar(&exportDir, "export", "", "also write the displayed images as PNG files to this directory")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level written to stderr: debug, info, warn or error")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		printUsage(stdout, flagSet)
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printUsage(stdout, flagSet)
		return nil
	}

	// Checked before anything touches the filesystem
	positional := flagSet.Args()
	if len(positional) != 2 {
		printUsage(stdout, flagSet)
		return &UsageError{Args: len(positional)}
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file
	if flagSet.Changed("mode") {
		cfg.Display.Mode = mode
	}
	if flagSet.Changed("limit") {
		cfg.Display.Limit = limit
	}
	if flagSet.Changed("color") {
		cfg.Render.Color = color
	}
	if flagSet.Changed("export") {
		cfg.Export.Dir = exportDir
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(stderr, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()
	idx.SetLogger(logger)
	defer idx.SetLogger(nil)

	profile, err := render.ParseProfile(cfg.Render.Color, stdout)
	if err != nil {
		return err
	}

	v := &viewer{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		out: render.NewRenderer(stdout, render.Options{
			Profile:    profile,
			BlockWidth: cfg.Render.BlockWidth,
		}),
	}
	return v.run(positional[0], positional[1])
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: mnistview [flags] <labels-file> <image-file>\n\n")
	fmt.Fprintf(w, "Flags:\n%s", flagSet.FlagUsages())
}
