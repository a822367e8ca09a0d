package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func notificationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "notifications",
		Usage: "List the account's notifications",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "read", Usage: "Mark everything as read"},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.session.IsAuthenticated() {
				return fmt.Errorf("notifications require a logged-in session")
			}

			notifications, err := app.backend.Notifications(c.Context)
			if err != nil {
				return err
			}
			if len(notifications) == 0 {
				fmt.Println("Sin notificaciones.")
				return nil
			}
			for _, n := range notifications {
				marker := "•"
				if n.Read {
					marker = " "
				}
				fmt.Printf("%s %s  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
			}

			if c.Bool("read") {
				if err := app.backend.MarkNotificationsRead(c.Context); err != nil {
					return err
				}
				fmt.Println("\nMarcadas como leídas.")
			}
			return nil
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:      "profile",
		Usage:     "Show a public user profile",
		ArgsUsage: "<username>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "favorites", Usage: "List the user's favorites"},
			&cli.BoolFlag{Name: "creations", Usage: "List the user's uploads"},
			&cli.BoolFlag{Name: "contributions", Usage: "List the user's contributions"},
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "Page size"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Page offset"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: wepcomic profile <username>")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := c.Context
			username := c.Args().First()
			limit := c.Int("limit")
			offset := c.Int("offset")

			profile, err := app.backend.GetProfile(ctx, username)
			if err != nil {
				return err
			}
			fmt.Println(profile.Username)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}

			switch {
			case c.Bool("favorites"):
				result, err := app.backend.ProfileFavorites(ctx, username, limit, offset)
				if err != nil {
					return err
				}
				comics, err := app.sources.ComicsByIDs(ctx, result.Data)
				if err != nil {
					return err
				}
				fmt.Println()
				printComicList("Favoritos", comics)
				if result.HasMore() {
					fmt.Println("  ... hay más resultados")
				}

			case c.Bool("creations"):
				result, err := app.backend.ProfileCreations(ctx, username, limit, offset)
				if err != nil {
					return err
				}
				fmt.Println()
				printComicList("Creaciones", result.Data)
				if result.HasMore() {
					fmt.Println("  ... hay más resultados")
				}

			case c.Bool("contributions"):
				result, err := app.backend.ProfileContributions(ctx, username, limit, offset)
				if err != nil {
					return err
				}
				fmt.Println()
				printComicList("Contribuciones", result.Data)
				if result.HasMore() {
					fmt.Println("  ... hay más resultados")
				}
			}
			return nil
		},
	}
}
