package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/runways/pkg/core"
)

var boardCategory string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Read and post on the public pilot board",
}

// requireOnline refuses an action when the device is offline.
func requireOnline(cmd *cobra.Command, action string) error {
	if !connectivityProvider(cmd).Online() {
		return fmt.Errorf("cannot %s: %w", action, core.ErrOffline)
	}
	return nil
}

var boardPostCmd = &cobra.Command{
	Use:   "post <airfield-id> <text...>",
	Short: "Post a public note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOnline(cmd, "post"); err != nil {
			return err
		}
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		a, ok := app.Catalog.Get(args[0])
		if !ok {
			return fmt.Errorf("airfield %s: %w", args[0], core.ErrNotFound)
		}
		n := app.Board.Add(a.ID, strings.Join(args[1:], " "), core.ParseCategory(boardCategory))

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Posted %s on %s\n", n.ID, a.ID)
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list <airfield-id>",
	Short: "List public notes, newest first",
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
		if boardCategory != "" {
			c := core.ParseCategory(boardCategory)
			filter = &c
		}
		list := app.Board.Notes(a.ID, filter)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), list)
		}
		printPublicNotes(cmd.OutOrStdout(), list, app.Board.CurrentVote)
		return nil
	},
}

var boardVoteCmd = &cobra.Command{
	Use:       "vote <note-id> up|down",
	Short:     "Vote on a public note, replacing any earlier vote",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(core.VoteUp), string(core.VoteDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction, err := core.ParseVoteDirection(args[1])
		if err != nil {
			return err
		}
		if err := requireOnline(cmd, "vote"); err != nil {
			return err
		}
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if _, ok := app.Board.Get(args[0]); !ok {
			return fmt.Errorf("public note %s: %w", args[0], core.ErrNotFound)
		}
		app.Board.Vote(args[0], direction)
		n, _ := app.Board.Get(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Voted %s: +%d / -%d\n", direction, n.ThumbsUp, n.ThumbsDown)
		return nil
	},
}

var boardUnvoteCmd = &cobra.Command{
	Use:   "unvote <note-id>",
	Short: "Withdraw this device's vote on a public note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOnline(cmd, "withdraw a vote"); err != nil {
			return err
		}
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if _, ok := app.Board.CurrentVote(args[0]); !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No vote to withdraw")
			return nil
		}
		n, ok := app.Board.Get(args[0])
		if !ok {
			return fmt.Errorf("public note %s: %w", args[0], core.ErrNotFound)
		}
		app.Board.RemoveVote(args[0])
		n, _ = app.Board.Get(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Vote withdrawn: +%d / -%d\n", n.ThumbsUp, n.ThumbsDown)
		return nil
	},
}

func printPublicNotes(out io.Writer, list []core.PublicNote, current func(string) (core.VoteDirection, bool)) {
	if len(list) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, n := range list {
		mine := ""
		if d, ok := current(n.ID); ok {
			mine = " you voted " + string(d)
		}
		fmt.Fprintf(out, "  [%s] +%d/-%d%s  (%s, %s)\n      %s\n",
			n.Category.DisplayName(), n.ThumbsUp, n.ThumbsDown, mine, humanize.Time(n.CreatedAt), n.ID, n.Content)
	}
}

func init() {
	boardPostCmd.Flags().StringVarP(&boardCategory, "category", "c", "", "Category (default general)")
	boardListCmd.Flags().StringVarP(&boardCategory, "category", "c", "", "Only this category")
	boardCmd.AddCommand(boardPostCmd, boardListCmd, boardVoteCmd, boardUnvoteCmd)
	rootCmd.AddCommand(boardCmd)
}
