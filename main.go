package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"beadify/mosaic"
	"beadify/palette"
	"beadify/parallel"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type cli struct {
	Workers   int    `help:"Number of images processed concurrently, 0 uses every CPU" default:"0"`
	LogLevel  string `help:"Minimum level of logged messages" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text"`

	Mosaic  mosaic.CLICmd  `cmd:"" help:"Turn every image of a folder into a bead mosaic"`
	Palette palette.CLICmd `cmd:"" help:"List, inspect, convert and extract bead palettes"`
}

func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("beadify"),
		kong.Description("Turn pictures into bead mosaics snapped to a palette."),
		kong.UsageOnError(),
	)

	if err := setupLogging(c.LogLevel, c.LogFormat); err != nil {
		kctx.FatalIfErrorf(err)
	}

	slog.Debug("running", "command", kctx.Command(), "workers", c.Workers)
	err := kctx.Run(parallel.Start(c.Workers))
	kctx.FatalIfErrorf(err)
}
