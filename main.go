package main

import (
	"log/slog"

	"bmpkit/convert"
	"bmpkit/edit"
	"bmpkit/inspect"
	"bmpkit/parallel"

	"github.com/alecthomas/kong"
)

var cli struct {
	Workers int  `help:"Number of parallel workers, 0 uses every CPU" default:"0"`
	Verbose bool `help:"Log debug messages" short:"v" default:"false"`

	Edit    edit.CLICmd    `cmd:"" help:"Apply edits to every bitmap of a folder"`
	Convert convert.CLICmd `cmd:"" help:"Convert pictures between BMP and other formats"`
	Inspect inspect.CLICmd `cmd:"" help:"Report on bitmaps"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("bmpkit"),
		kong.Description("Decode, edit and encode BMP files."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	pool := parallel.Start(cli.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers)

	err := kctx.Run(pool.Do, pool.Wait, kctx.Selected().Name)
	pool.Wait(true)
	kctx.FatalIfErrorf(err)
}
