package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

const homePanelSize = 10

func printComicList(header string, comics []models.Comic) {
	fmt.Println(header)
	if len(comics) == 0 {
		fmt.Println("  (sin resultados)")
		return
	}
	for _, comic := range comics {
		fmt.Printf("  %-36s  %s\n", comic.ID, comic.Title)
	}
}

func homeCommand() *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Landing dashboard: recently updated, newly added and community uploads",
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			showNSFW, language := app.contentPrefs()
			ctx := c.Context

			// Each panel loads independently; a failing panel renders empty
			// without affecting the others.
			var (
				wg        sync.WaitGroup
				recent    []models.Comic
				newly     []models.Comic
				community []models.Comic
			)
			wg.Add(3)
			go func() {
				defer wg.Done()
				recent = app.sources.RecentlyUpdated(ctx, homePanelSize, showNSFW, language)
			}()
			go func() {
				defer wg.Done()
				newly = app.sources.NewlyAdded(ctx, homePanelSize, showNSFW)
			}()
			go func() {
				defer wg.Done()
				comics, _, err := app.sources.CommunityUploads(ctx, 1, homePanelSize, "", showNSFW)
				if err != nil {
					app.log.Warn("Community panel degraded to empty", map[string]interface{}{
						"error": err.Error(),
					})
					return
				}
				community = comics
			}()
			wg.Wait()

			printComicList("Actualizados recientemente", recent)
			fmt.Println()
			printComicList("Recién añadidos", newly)
			fmt.Println()
			printComicList("Añadido por la Comunidad", community)
			return nil
		},
	}
}

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:      "explore",
		Usage:     "Browse or search the external catalog",
		ArgsUsage: "[search term]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "Page size"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Page offset"},
			&cli.BoolFlag{Name: "community", Usage: "Browse community uploads instead"},
			&cli.BoolFlag{Name: "popular", Usage: "Order by follower count"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag `ID` (see --tags)"},
			&cli.BoolFlag{Name: "tags", Usage: "List the genre tags"},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			showNSFW, language := app.contentPrefs()
			search := strings.Join(c.Args().Slice(), " ")
			limit := c.Int("limit")
			offset := c.Int("offset")
			ctx := c.Context

			switch {
			case c.Bool("tags"):
				for _, tag := range app.sources.Tags(ctx) {
					fmt.Printf("  %-36s  %s\n", tag.ID, tag.Name)
				}
				return nil

			case c.String("tag") != "":
				comics, hasMore := app.sources.ComicsByTag(ctx, c.String("tag"), limit, offset, showNSFW, language)
				printComicList("Por género", comics)
				if hasMore {
					fmt.Println("  ... hay más resultados")
				}
				return nil

			case c.Bool("popular"):
				comics, hasMore := app.sources.Popular(ctx, limit, offset, showNSFW, language)
				printComicList("Populares", comics)
				if hasMore {
					fmt.Println("  ... hay más resultados")
				}
				return nil

			case c.Bool("community"):
				page := offset/limit + 1
				comics, pagination, err := app.sources.CommunityUploads(ctx, page, limit, search, showNSFW)
				if err != nil {
					return err
				}
				printComicList("Añadido por la Comunidad", comics)
				if pagination != nil && pagination.Page < pagination.TotalPages {
					fmt.Println("  ... hay más resultados")
				}
				return nil

			default:
				comics, hasMore, err := app.sources.Explore(ctx, limit, offset, search, showNSFW, language)
				if err != nil {
					return err
				}
				printComicList("Explorar", comics)
				if hasMore {
					fmt.Println("  ... hay más resultados")
				}
				return nil
			}
		},
	}
}

func commentCommand() *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Usage:     "Post a comment on a community work",
		ArgsUsage: "<comicId> <text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "delete", Usage: "Delete the comment with `ID` instead of posting"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("usage: wepcomic comment <comicId> <text>")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.session.IsAuthenticated() {
				return fmt.Errorf("commenting requires being logged in")
			}
			comicID := c.Args().First()

			if commentID := c.String("delete"); commentID != "" {
				if err := app.backend.DeleteComment(c.Context, comicID, commentID); err != nil {
					return err
				}
				fmt.Println("Comentario eliminado.")
				return nil
			}

			text := strings.Join(c.Args().Slice()[1:], " ")
			if text == "" {
				return fmt.Errorf("usage: wepcomic comment <comicId> <text>")
			}
			comment, err := app.backend.PostComment(c.Context, comicID, text)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", comment.Author, comment.Text)
			return nil
		},
	}
}

func comicCommand() *cli.Command {
	return &cli.Command{
		Name:      "comic",
		Usage:     "Show a comic's detail and chapter list",
		ArgsUsage: "<comicId>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "other-sources",
				Usage: "Search alternate providers when the chapter list is empty",
			},
			&cli.BoolFlag{Name: "comments", Usage: "Show community comments"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: wepcomic comic <comicId>")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			showNSFW, language := app.contentPrefs()
			comicID := c.Args().First()
			ctx := c.Context

			comic, err := app.sources.ResolveComic(ctx, comicID, language, showNSFW)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", comic.Title)
			fmt.Printf("Autor: %s\n", comic.Author)
			stats := app.sources.Statistics(ctx, comic)
			if stats.Rating != 0 || stats.Follows != 0 {
				fmt.Printf("Valoración: %.2f  Seguidores: %d\n", stats.Rating, stats.Follows)
			}
			fmt.Printf("\n%s\n\n", comic.Synopsis)

			chapters := comic.Chapters
			if len(chapters) == 0 && c.Bool("other-sources") && !comic.IsLocal() {
				chapters = app.sources.FindChaptersFromAnySource(ctx, comic.AllTitlesRaw, comic.Origin)
			}
			if len(chapters) == 0 {
				fmt.Println("No hay capítulos disponibles.")
			} else {
				fmt.Printf("Capítulos (%d):\n", len(chapters))
				for _, ch := range chapters {
					fmt.Printf("  %-36s  %s\n", ch.ID, ch.Title)
				}
			}

			if c.Bool("comments") && comic.IsLocal() {
				comments, err := app.backend.Comments(ctx, comicID)
				if err != nil {
					return err
				}
				fmt.Println("\nComentarios:")
				if len(comments) == 0 {
					fmt.Println("  (sin comentarios)")
				}
				for _, comment := range comments {
					fmt.Printf("  %s: %s\n", comment.Author, comment.Text)
				}
			}
			return nil
		},
	}
}
