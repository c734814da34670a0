// normalize-check resolves team names against the alias document and prints
// how each one was matched. Operator tool for tuning aliases and heuristics:
//
//	normalize-check -teams configs/teams.json "Arsenal FC." "Atl. Madrid"
//	cat names.txt | normalize-check -teams configs/teams.json
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/slipline/slipline/internal/normalize"
	pkgconfig "github.com/slipline/slipline/internal/pkg/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("normalize-check failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	teamsPath := flag.String("teams", "configs/teams.json", "path to team alias document")
	flag.Parse()

	teams, err := pkgconfig.LoadTeams(*teamsPath)
	if err != nil {
		return err
	}
	normalizer, err := normalize.New(teams)
	if err != nil {
		return err
	}

	names := flag.Args()
	if len(names) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			names = append(names, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tOUTPUT\tMETHOD\tCONFIDENCE")
	for _, name := range names {
		r := normalizer.Normalize(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", r.Input, r.Output, r.Method, r.Confidence)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if unmatched := normalizer.Unmatched(); len(unmatched) > 0 {
		fmt.Printf("\n%d unmatched name(s); consider adding aliases:\n", len(unmatched))
		for _, name := range unmatched {
			fmt.Println("  " + name)
		}
	}
	return nil
}
