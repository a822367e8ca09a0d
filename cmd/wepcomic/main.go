// Command wepcomic is the WepComic terminal client: browse the catalogs,
// read chapters, keep favorites and, for moderators, work the review queues.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "wepcomic",
		Usage:   "Terminal client for the WepComic community manga platform",
		Version: fmt.Sprintf("%s (%s) %s", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (console, json)",
			},
		},
		Commands: []*cli.Command{
			homeCommand(),
			exploreCommand(),
			comicCommand(),
			readCommand(),
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			passwdCommand(),
			commentCommand(),
			favoritesCommand(),
			modCommand(),
			prefsCommand(),
			notificationsCommand(),
			profileCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Get().Error("Error running application", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
