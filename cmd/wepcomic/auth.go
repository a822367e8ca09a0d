package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// promptPassword reads a password without echoing it.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func promptLine(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and persist the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Account email"},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			email := c.String("email")
			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}

			user, err := app.backend.Login(c.Context, email, password)
			if err != nil {
				return err
			}
			if err := app.session.Login(*user); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Usage: "Display name"},
			&cli.StringFlag{Name: "email", Usage: "Account email"},
		},
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			username := c.String("username")
			if username == "" {
				if username, err = promptLine("Username"); err != nil {
					return err
				}
			}
			email := c.String("email")
			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			user, err := app.backend.Register(c.Context, username, email, password)
			if err != nil {
				return err
			}
			if err := app.session.Login(*user); err != nil {
				return err
			}
			fmt.Printf("Welcome, %s\n", user.Username)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Discard the persisted session",
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.session.IsAuthenticated() {
				fmt.Println("Not logged in.")
				return nil
			}
			username := app.session.Current().Username
			if err := app.session.Logout(); err != nil {
				return err
			}
			fmt.Printf("Logged out %s.\n", username)
			return nil
		},
	}
}

func passwdCommand() *cli.Command {
	return &cli.Command{
		Name:  "passwd",
		Usage: "Change the account password",
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.session.IsAuthenticated() {
				return fmt.Errorf("changing the password requires being logged in")
			}

			current, err := promptPassword("Current password")
			if err != nil {
				return err
			}
			updated, err := promptPassword("New password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm new password")
			if err != nil {
				return err
			}
			if updated != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := app.backend.ChangePassword(c.Context, current, updated); err != nil {
				return err
			}
			fmt.Println("Password changed.")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the active identity",
		Action: func(c *cli.Context) error {
			app, err := newAppContext(c)
			if err != nil {
				return err
			}
			defer app.Close()

			user := app.session.Current()
			if user == nil {
				fmt.Println("Anonymous (favorites stay on this machine).")
				return nil
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			fmt.Printf("Role: %s\n", user.Role)
			return nil
		},
	}
}
