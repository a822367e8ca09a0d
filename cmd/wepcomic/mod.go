package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/wepcomic/wepcomic-term/internal/moderation"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

func modCommand() *cli.Command {
	return &cli.Command{
		Name:  "mod",
		Usage: "Moderation workflow (MODERATOR or ADMIN)",
		Subcommands: []*cli.Command{
			modQueueCommand(),
			modReviewCommand(),
			modProposalCommand(),
		},
	}
}

func requireModerator(app *appContext) error {
	if !app.session.Current().CanModerate() {
		return fmt.Errorf("moderation requires the MODERATOR or ADMIN role")
	}
	return nil
}

func modQueueCommand() *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "List a moderation queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Value: "new",
				Usage: "Queue to list: new, edits, archived or proposals",
			},
			&cli.IntFlag{Name: "page", Value: 1, Usage: "Queue page"},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := requireModerator(app); err != nil {
				return err
			}

			ctx := c.Context
			page := c.Int("page")

			if c.String("type") == "proposals" {
				proposals, err := app.backend.PendingProposals(ctx)
				if err != nil {
					return err
				}
				fmt.Println("Propuestas pendientes")
				for _, p := range proposals {
					fmt.Printf("  %-36s  %s (por %s)\n", p.ID, p.Title, p.Proposer.Username)
				}
				return nil
			}

			var (
				result *models.PagedResult[models.QueueEntry]
				header string
			)
			switch c.String("type") {
			case "new":
				result, err = app.backend.NewSubmissions(ctx, page)
				header = "Nuevas subidas"
			case "edits":
				result, err = app.backend.PendingEdits(ctx, page)
				header = "Ediciones pendientes"
			case "archived":
				result, err = app.backend.ArchivedMangas(ctx, page)
				header = "Archivados"
			default:
				return fmt.Errorf("unknown queue type %q", c.String("type"))
			}
			if err != nil {
				return err
			}

			fmt.Println(header)
			for _, entry := range result.Data {
				editor := ""
				if entry.EditedBy != nil {
					editor = " (editado por " + entry.EditedBy.Username + ")"
				}
				fmt.Printf("  %-36s  %s (por %s)%s\n", entry.ID, entry.Title, entry.Uploader.Username, editor)
			}
			if result.HasMore() {
				fmt.Println("  ... hay más páginas")
			}
			return nil
		},
	}
}

func modProposalCommand() *cli.Command {
	return &cli.Command{
		Name:      "proposal",
		Usage:     "Decide a pending metadata edit proposal",
		ArgsUsage: "<approve|reject> <proposalId> [reason]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: wepcomic mod proposal <approve|reject> <proposalId> [reason]")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := requireModerator(app); err != nil {
				return err
			}

			ctx := c.Context
			proposalID := c.Args().Get(1)
			switch c.Args().First() {
			case "approve":
				if err := app.backend.ApproveProposal(ctx, proposalID); err != nil {
					return err
				}
				fmt.Println("Propuesta aplicada.")
			case "reject":
				reason := strings.Join(c.Args().Slice()[2:], " ")
				if reason == "" {
					return fmt.Errorf("rejecting a proposal requires a reason")
				}
				if err := app.backend.RejectProposal(ctx, proposalID, reason); err != nil {
					return err
				}
				fmt.Println("Propuesta descartada.")
			default:
				return fmt.Errorf("unknown proposal action %q", c.Args().First())
			}
			return nil
		},
	}
}

func modReviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Open a review session for one work",
		ArgsUsage: "<mangaId>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: wepcomic mod review <mangaId>")
			}
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := requireModerator(app); err != nil {
				return err
			}

			ctx := c.Context
			sess := moderation.NewReviewSession(app.backend, c.Args().First(), app.log)
			if err := sess.Start(ctx); err != nil {
				return err
			}
			defer sess.Close(ctx)

			printReview(sess)
			if blocked, message := sess.Blocked(); blocked {
				fmt.Printf("\n⚠ %s\n", message)
				fmt.Println("Las acciones están deshabilitadas.")
				return nil
			}
			return reviewLoop(c, app, sess)
		},
	}
}

func printReview(sess *moderation.ReviewSession) {
	manga := sess.Manga()
	fmt.Printf("%s [%s]\n", manga.Title, manga.Status)
	fmt.Printf("Subido por: %s\n", manga.Uploader.Username)
	if manga.LastEditedBy != nil {
		fmt.Printf("Última edición: %s\n", manga.LastEditedBy.Username)
	}

	conflicts := sess.Conflicts()
	flagged := make(map[string]int)
	for _, ids := range conflicts {
		for _, id := range ids {
			flagged[id] = len(ids)
		}
	}

	fmt.Println("\nCapítulos:")
	for _, ch := range manga.Chapters {
		marker := " "
		if ch.Status == models.StatusPending {
			marker = "*"
		}
		line := fmt.Sprintf("  %s %-36s  Cap. %g [%s] %s", marker, ch.ID, ch.ChapterNumber, ch.Language, ch.Status)
		if n, ok := flagged[ch.ID]; ok {
			line += fmt.Sprintf("  ⚠ uno de %d capítulos pendientes con el mismo número e idioma", n)
		}
		fmt.Println(line)
	}
	if len(conflicts) > 0 {
		fmt.Println("\n⚠ Conflictos detectados: las acciones en bloque están deshabilitadas.")
	}
}

func reviewLoop(c *cli.Context, app *appContext, sess *moderation.ReviewSession) error {
	ctx := c.Context
	scanner := bufio.NewScanner(os.Stdin)
	isAdmin := app.session.Current().IsAdmin()

	fmt.Println("\nAcciones: approve | reject <motivo> | approve-ch <id> | reject-ch <id> <motivo> | archive | restore | delete | delete-ch <id> | quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "quit", "q":
			return nil
		case "approve":
			err = sess.ApproveManga(ctx)
		case "reject":
			if len(fields) < 2 {
				fmt.Println("reject requiere un motivo")
				continue
			}
			err = sess.RejectManga(ctx, strings.Join(fields[1:], " "))
		case "approve-ch":
			if len(fields) != 2 {
				fmt.Println("approve-ch requiere el id del capítulo")
				continue
			}
			err = sess.ApproveChapter(ctx, fields[1])
		case "reject-ch":
			if len(fields) < 3 {
				fmt.Println("reject-ch requiere id y motivo")
				continue
			}
			err = sess.RejectChapter(ctx, fields[1], strings.Join(fields[2:], " "))
		case "archive":
			err = sess.ArchiveManga(ctx)
		case "restore":
			err = sess.RestoreManga(ctx)
		case "delete-ch":
			if !isAdmin {
				fmt.Println("delete-ch requiere el rol ADMIN")
				continue
			}
			if len(fields) != 2 {
				fmt.Println("delete-ch requiere el id del capítulo")
				continue
			}
			err = sess.DeleteChapter(ctx, fields[1])
		case "delete":
			if !isAdmin {
				fmt.Println("delete requiere el rol ADMIN")
				continue
			}
			if err = sess.DeleteManga(ctx); err == nil {
				fmt.Println("Eliminado.")
				return nil
			}
		default:
			fmt.Println("Acción desconocida.")
			continue
		}

		if err != nil {
			fmt.Printf("La operación falló: %v\n", err)
			continue
		}
		fmt.Println()
		printReview(sess)
	}
}
