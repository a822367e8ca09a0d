package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/reader"
)

func prefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show or change content preferences",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "nsfw",
				Usage: "Show adult content (true or false)",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Content language (es, en or all)",
			},
			&cli.StringFlag{
				Name:  "display-mode",
				Usage: "Reader display mode (fitWidth or fitHeight)",
			},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			if v := c.String("nsfw"); v != "" {
				if v != "true" && v != "false" {
					return fmt.Errorf("nsfw must be true or false")
				}
				if err := app.db.SetPreference(database.PrefShowNSFW, v); err != nil {
					return err
				}
			}
			if v := c.String("language"); v != "" {
				if v != "es" && v != "en" && v != "all" {
					return fmt.Errorf("language must be es, en or all")
				}
				if err := app.db.SetPreference(database.PrefLanguage, v); err != nil {
					return err
				}
			}
			if v := c.String("display-mode"); v != "" {
				if v != string(reader.FitWidth) && v != string(reader.FitHeight) {
					return fmt.Errorf("display-mode must be fitWidth or fitHeight")
				}
				if err := app.db.SetPreference(database.PrefDisplayMode, v); err != nil {
					return err
				}
			}

			showNSFW, language := app.contentPrefs()
			displayMode := app.db.GetPreference(database.PrefDisplayMode, string(reader.FitWidth))
			fmt.Printf("nsfw:         %v\n", showNSFW)
			fmt.Printf("language:     %s\n", language)
			fmt.Printf("display-mode: %s\n", displayMode)
			return nil
		},
	}
}
