package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/models"
	"github.com/wepcomic/wepcomic-term/internal/reader"
)

func readCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Open the chapter reader",
		ArgsUsage: "<comicId> <chapterId>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Chapter source (local, mangadex or a provider name)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: wepcomic read <comicId> <chapterId>")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			showNSFW, language := app.contentPrefs()
			comicID := c.Args().Get(0)
			chapterID := c.Args().Get(1)
			chapterSource := models.ChapterSource(c.String("source"))

			return reader.Run(app.sources, app.db, app.log, comicID, chapterID, chapterSource, language, showNSFW)
		},
	}
}
