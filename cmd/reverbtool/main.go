// Command reverbtool renders, measures and auditions the reverb engines.
//
// Usage:
//
//	reverbtool <command> [flags]
//
// Examples:
//
//	reverbtool types
//	reverbtool render --type fdn --preset large-hall ir.wav
//	reverbtool analyze --type dattorro --roomsize 0.8 --damping 0.3
//	reverbtool play --type lexverb --curve concave --sweep
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface.
type CLI struct {
	LogLevel string `help:"Log level for engine diagnostics." default:"warn" enum:"debug,info,warn,error"`

	Render  RenderCmd  `cmd:"" help:"Render a stereo impulse response to a WAV file."`
	Analyze AnalyzeCmd `cmd:"" help:"Print decay and stereo metrics of an impulse response."`
	Play    PlayCmd    `cmd:"" help:"Play noise bursts through a reverb."`
	Types   TypesCmd   `cmd:"" help:"List reverb types and presets."`
}

// runContext is bound into every command's Run method.
type runContext struct {
	logger *slog.Logger
	out    io.Writer
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("reverbtool"),
		kong.Description("Render, measure and audition algorithmic reverbs."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	rc := &runContext{
		logger: newLogger(cli.LogLevel, os.Stderr),
		out:    os.Stdout,
	}
	if err := ctx.Run(rc); err != nil {
		printError(fmt.Sprint(err))
		os.Exit(1)
	}
}
