package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func favoritesCommand() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "Manage the favorites list",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the favorite comics in the order they were added",
				Action: func(c *cli.Context) error {
					app, err := newAppContext(c)
					if err != nil {
						return err
					}
					defer app.Close()

					manager, err := app.favoritesManager(c)
					if err != nil {
						return err
					}

					comics, err := manager.Comics(c.Context, app.sources)
					if err != nil {
						return err
					}
					printComicList("Favoritos", comics)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Add a comic to the favorites",
				ArgsUsage: "<comicId>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: wepcomic favorites add <comicId>")
					}
					app, err := newAppContext(c)
					if err != nil {
						return err
					}
					defer app.Close()

					manager, err := app.favoritesManager(c)
					if err != nil {
						return err
					}
					if err := manager.Add(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Println("Añadido a favoritos.")
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a comic from the favorites",
				ArgsUsage: "<comicId>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: wepcomic favorites remove <comicId>")
					}
					app, err := newAppContext(c)
					if err != nil {
						return err
					}
					defer app.Close()

					manager, err := app.favoritesManager(c)
					if err != nil {
						return err
					}
					if err := manager.Remove(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Println("Eliminado de favoritos.")
					return nil
				},
			},
		},
	}
}
