// Command boetectl manages a boetepot server from the terminal.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/boetepot/platform/internal/client"
	"github.com/boetepot/platform/internal/domain"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "boetectl",
		Usage:  "manage the team fines ledger",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "boetepot server URL",
				Value:   "http://localhost:5000",
				EnvVars: []string{"BOETEPOT_URL"},
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "API path prefix",
				Value: client.DefaultPrefix,
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "admin password, required for changes",
				EnvVars: []string{"BOETEPOT_PASSWORD"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "total",
				Usage: "show the pot total",
				Action: func(c *cli.Context) error {
					total, err := apiClient(c).Total(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "€ %s\n", total)
					return nil
				},
			},
			{
				Name:  "recent",
				Usage: "show the latest fines",
				Action: func(c *cli.Context) error {
					fines, err := apiClient(c).Recent(c.Context)
					if err != nil {
						return err
					}
					return printFines(c.App.Writer, fines)
				},
			},
			{
				Name:  "leaderboard",
				Usage: "show player totals, highest first",
				Action: func(c *cli.Context) error {
					board, err := apiClient(c).Leaderboard(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "#\tSPELER\tTOTAAL")
					for i, pt := range board {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, pt.Speler, pt.Totaal)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "history",
				Usage:     "show one player's fines",
				ArgsUsage: "<speler>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: boetectl history <speler>", 2)
					}
					fines, err := apiClient(c).PlayerHistory(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return printFines(c.App.Writer, fines)
				},
			},
			fineCommand(),
			playerCommand(),
			reasonCommand(),
			{
				Name:  "login",
				Usage: "check the admin password",
				Action: func(c *cli.Context) error {
					if err := login(c); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "Login successful")
					return nil
				},
			},
			{
				Name:  "reset",
				Usage: "clear all fines and players for a new season",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "skip the export reminder"},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return cli.Exit("reset deletes every fine; run 'boetectl export' first and repeat with --yes", 2)
					}
					if err := login(c); err != nil {
						return err
					}
					if err := apiClient(c).Reset(c.Context); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "Alle boetes zijn gereset voor het nieuwe seizoen")
					return nil
				},
			},
			{
				Name:      "export",
				Usage:     "download the season workbook",
				ArgsUsage: "<file.xlsx>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: boetectl export <file.xlsx>", 2)
					}
					data, err := apiClient(c).Export(c.Context)
					if err != nil {
						return err
					}
					if err := os.WriteFile(c.Args().First(), data, 0o644); err != nil {
						return fmt.Errorf("write export: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", c.Args().First(), len(data))
					return nil
				},
			},
		},
	}
}

func fineCommand() *cli.Command {
	return &cli.Command{
		Name:  "fine",
		Usage: "add or remove fines",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "record a fine",
				ArgsUsage: "<speler> <bedrag> <reden>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 3 {
						return cli.Exit("usage: boetectl fine add <speler> <bedrag> <reden>", 2)
					}
					bedrag, err := domain.ParseAmount(c.Args().Get(1))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					if err := login(c); err != nil {
						return err
					}
					fine, err := apiClient(c).AddFine(c.Context, domain.FineInput{
						Speler: c.Args().Get(0),
						Bedrag: &bedrag,
						Reden:  c.Args().Get(2),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "boete %d: %s € %s (%s)\n", fine.ID, fine.Speler, fine.Bedrag, fine.Reden)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a fine",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					if err := login(c); err != nil {
						return err
					}
					if err := apiClient(c).DeleteFine(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "boete %d verwijderd\n", id)
					return nil
				},
			},
		},
	}
}

func playerCommand() *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "manage the roster",
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "list players",
				Action: func(c *cli.Context) error {
					players, err := apiClient(c).Players(c.Context)
					if err != nil {
						return err
					}
					for _, p := range players {
						fmt.Fprintln(c.App.Writer, p)
					}
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "add a player",
				ArgsUsage: "<naam>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: boetectl player add <naam>", 2)
					}
					if err := login(c); err != nil {
						return err
					}
					name, err := apiClient(c).AddPlayer(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "speler %s toegevoegd\n", name)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a player and all of their fines",
				ArgsUsage: "<naam>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: boetectl player rm <naam>", 2)
					}
					if err := login(c); err != nil {
						return err
					}
					if err := apiClient(c).DeletePlayer(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "speler %s verwijderd\n", c.Args().First())
					return nil
				},
			},
		},
	}
}

func reasonCommand() *cli.Command {
	return &cli.Command{
		Name:  "reason",
		Usage: "manage the reason catalogue",
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "list reasons",
				Action: func(c *cli.Context) error {
					reasons, err := apiClient(c).Reasons(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAAM\tBEDRAG")
					for _, r := range reasons {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Naam, r.Bedrag)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "add",
				Usage:     "add a reason; the amount is optional",
				ArgsUsage: "<naam> [bedrag]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 || c.NArg() > 2 {
						return cli.Exit("usage: boetectl reason add <naam> [bedrag]", 2)
					}
					input := domain.ReasonInput{Naam: c.Args().First()}
					if c.NArg() == 2 {
						bedrag, err := domain.ParseAmount(c.Args().Get(1))
						if err != nil {
							return cli.Exit(err.Error(), 2)
						}
						input.Bedrag = &bedrag
					}
					if err := login(c); err != nil {
						return err
					}
					reason, err := apiClient(c).AddReason(c.Context, input)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "reden %d: %s € %s\n", reason.ID, reason.Naam, reason.Bedrag)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a reason",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					if err := login(c); err != nil {
						return err
					}
					if err := apiClient(c).DeleteReason(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "reden %d verwijderd\n", id)
					return nil
				},
			},
		},
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"), c.String("prefix"))
}

// login checks --password before a change, the way the web UI gates its admin actions.
func login(c *cli.Context) error {
	password := c.String("password")
	if password == "" {
		return cli.Exit("--password (or BOETEPOT_PASSWORD) is required for changes", 2)
	}
	return apiClient(c).Login(c.Context, password)
}

func idArg(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, cli.Exit("expected exactly one <id>", 2)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("invalid id %q", c.Args().First()), 2)
	}
	return id, nil
}

func printFines(w io.Writer, fines []domain.Fine) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATUM\tSPELER\tBEDRAG\tREDEN")
	for _, f := range fines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Datum.Local().Format("02-01-2006 15:04"), f.Speler, f.Bedrag, f.Reden)
	}
	return tw.Flush()
}
