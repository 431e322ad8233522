package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/runways/pkg/core"
)

var (
	noteTitle    string
	noteBody     string
	noteCategory string
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage private airfield notes",
}

var notesAddCmd = &cobra.Command{
	Use:   "add <airfield-id>",
	Short: "Add a private note",
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
		if strings.TrimSpace(noteTitle) == "" {
			return fmt.Errorf("a note needs a --title")
		}
		n := app.Notes.Add(a.ID, noteTitle, noteBody, core.ParseCategory(noteCategory))

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added note %s to %s\n", n.ID, a.ID)
		return nil
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list <airfield-id>",
	Short: "List private notes, most recently updated first",
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
		var filter *core.NoteCategory
		if noteCategory != "" {
			c := core.ParseCategory(noteCategory)
			filter = &c
		}
		list := app.Notes.Notes(a.ID, filter)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), list)
		}
		printPrivateNotes(cmd.OutOrStdout(), list)
		return nil
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Edit a private note; unspecified fields are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		n, ok := app.Notes.Get(args[0])
		if !ok {
			return fmt.Errorf("note %s: %w", args[0], core.ErrNotFound)
		}
		title, body, category := n.Title, n.Body, n.Category
		if cmd.Flags().Changed("title") {
			title = noteTitle
		}
		if cmd.Flags().Changed("body") {
			body = noteBody
		}
		if cmd.Flags().Changed("category") {
			category = core.ParseCategory(noteCategory)
		}
		app.Notes.Update(n, title, body, category)

		fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s\n", n.ID)
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a private note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		n, ok := app.Notes.Get(args[0])
		if !ok {
			return fmt.Errorf("note %s: %w", args[0], core.ErrNotFound)
		}
		app.Notes.Delete(n)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", n.ID)
		return nil
	},
}

func printPrivateNotes(out io.Writer, list []core.PrivateNote) {
	if len(list) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, n := range list {
		fmt.Fprintf(out, "  [%s] %s  (%s, %s)\n", n.Category.DisplayName(), n.Title, humanize.Time(n.UpdatedAt), n.ID)
		if n.Body != "" && n.Body != n.Title {
			for _, line := range strings.Split(n.Body, "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
}

func init() {
	categories := make([]string, 0, 4)
	for _, c := range core.Categories() {
		categories = append(categories, string(c))
	}
	help := "Category: " + strings.Join(categories, ", ")

	for _, c := range []*cobra.Command{notesAddCmd, notesEditCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteBody, "body", "b", "", "Note body")
	}
	notesAddCmd.Flags().StringVarP(&noteCategory, "category", "c", string(core.CategoryGeneral), help)
	notesEditCmd.Flags().StringVarP(&noteCategory, "category", "c", "", help)
	notesListCmd.Flags().StringVarP(&noteCategory, "category", "c", "", help+" (default all)")

	notesCmd.AddCommand(notesAddCmd, notesListCmd, notesEditCmd, notesDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}
