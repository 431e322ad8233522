package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/runways/pkg/core"
	"github.com/aretw0/runways/pkg/favourites"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favourite airfields",
}

// favMutation runs fn on a known airfield and prints the resulting state.
func favMutation(use, short string, fn func(*favourites.Store, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <airfield-id>",
		Short: short,
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
			fn(app.Favourites, a.ID)

			state := "not a favourite"
			if app.Favourites.IsFavourite(a.ID) {
				state = "favourite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", a.ID, state)
			return nil
		},
	}
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favourite airfield IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ids := app.Favourites.IDs()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, ids)
		}
		for _, id := range ids {
			name := ""
			if a, ok := app.Catalog.Get(id); ok {
				name = a.Name
			}
			fmt.Fprintf(out, "%s\t%s\n", id, name)
		}
		return nil
	},
}

func init() {
	favCmd.AddCommand(
		favMutation("toggle", "Flip an airfield's favourite flag", func(s *favourites.Store, id string) {
			s.Toggle(id)
		}),
		favMutation("set", "Mark an airfield as favourite", func(s *favourites.Store, id string) {
			s.SetFavourite(id, true)
		}),
		favMutation("unset", "Clear an airfield's favourite flag", func(s *favourites.Store, id string) {
			s.SetFavourite(id, false)
		}),
		favListCmd,
	)
	rootCmd.AddCommand(favCmd)
}
