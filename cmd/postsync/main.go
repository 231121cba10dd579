package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postsync/cmd/postsync/commands"
	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("postsync"),
		kong.Description("Sync Obsidian notes with YAML front matter into a Hugo content folder and a post store."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	globals := &commands.Global{Stdout: os.Stdout}
	err := ctx.Run(globals, &cli)
	globals.Close()

	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
