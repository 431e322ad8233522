package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/runways/pkg/catalog"
	"github.com/aretw0/runways/pkg/core"
)

var listMode string

var airfieldsCmd = &cobra.Command{
	Use:   "airfields [query]",
	Short: "List airfields grouped by region",
	Long: `List the reference airfields, grouped by region. The optional query matches
name, ICAO or IATA code, case-insensitively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := catalog.ParseListMode(listMode)
		if err != nil {
			return err
		}
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		list := catalog.Filter(app.Catalog.Search(query), mode, app.Favourites.IsFavourite, app.Notes.HasNotes)
		groups := catalog.GroupByRegion(list)

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, groups)
		}
		if len(groups) == 0 {
			fmt.Fprintln(out, "No airfields found.")
			return nil
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s\n", g.Region)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, a := range g.Airfields {
				star := " "
				if app.Favourites.IsFavourite(a.ID) {
					star = "*"
				}
				fmt.Fprintf(w, "  %s %s\t%s\t%s\t%d rwy\n", star, a.ICAOCode, orDash(a.IATACode), a.Name, len(a.Runways))
			}
			w.Flush()
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <airfield-id>",
	Short: "Show an airfield with its runways and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		a, ok := app.Catalog.Get(args[0])
		if !ok {
			return fmt.Errorf("airfield %s: %w", args[0], core.ErrNotFound)
		}
		private := app.Notes.Notes(a.ID, nil)
		public := app.Board.Notes(a.ID, nil)

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]any{
				"airfield":     a,
				"favourite":    app.Favourites.IsFavourite(a.ID),
				"privateNotes": private,
				"publicNotes":  public,
			})
		}
		printAirfield(out, a, app.Favourites.IsFavourite(a.ID))
		fmt.Fprintf(out, "\nPrivate notes (%d)\n", len(private))
		printPrivateNotes(out, private)
		fmt.Fprintf(out, "\nBoard (%d)\n", len(public))
		printPublicNotes(out, public, app.Board.CurrentVote)
		return nil
	},
}

func printAirfield(out io.Writer, a core.Airfield, favourite bool) {
	title := fmt.Sprintf("%s %s (%s", a.CountryFlag, a.Name, a.ICAOCode)
	if a.IATACode != "" {
		title += "/" + a.IATACode
	}
	title += ")"
	if favourite {
		title += " *"
	}
	fmt.Fprintln(out, strings.TrimSpace(title))
	fmt.Fprintf(out, "Elevation %d m, region %s, curfew %s\n", a.ElevationMeters, orDash(a.Region), a.CurfewLabel())
	if a.OperatingHours != "" {
		fmt.Fprintf(out, "Hours %s\n", a.OperatingHours)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RWY\tHDG\tLENGTH\tWIDTH\tAPPROACHES")
	for _, r := range a.Runways {
		fmt.Fprintf(w, "%s\t%03d/%03d\t%d m\t%d m\t%s\n",
			r.Designation, r.HeadingDegrees, r.ReciprocalHeadingDegrees, r.LengthMeters, r.WidthMeters, strings.Join(r.ApproachTypes, ", "))
	}
	w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	airfieldsCmd.Flags().StringVarP(&listMode, "mode", "m", "all", "List mode: all, favourites or my-notes")
	rootCmd.AddCommand(airfieldsCmd)
	rootCmd.AddCommand(showCmd)
}
