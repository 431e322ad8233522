package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/runways"
	"github.com/aretw0/runways/pkg/board"
	"github.com/aretw0/runways/pkg/connectivity"
	"github.com/aretw0/runways/pkg/favourites"
	"github.com/aretw0/runways/pkg/notes"
)

var statusDiagram bool

type statusReport struct {
	Version      string             `json:"version"`
	App          runways.AppState   `json:"app"`
	Connectivity connectivity.State `json:"connectivity"`
	Warnings     string             `json:"warnings,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every store",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var online connectivity.State
		if p, ok := connectivityProvider(cmd).(introspection.Introspectable); ok {
			online, _ = p.State().(connectivity.State)
		} else {
			online = connectivity.State{Online: false, Address: "offline"}
		}

		report := statusReport{
			Version:      runways.Version,
			App:          app.State().(runways.AppState),
			Connectivity: online,
		}
		if err := app.Err(); err != nil {
			report.Warnings = err.Error()
		}

		out := cmd.OutOrStdout()
		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "runways"
			config.SecondaryLabel = "Data Directory"
			fmt.Fprintln(out, introspection.TreeDiagram(buildStatusTree(report), config))
			return nil
		}
		return printJSON(out, report)
	},
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildStatusTree maps a report onto the node shape the diagram expects.
// Status values must be classes known to introspection.DefaultStyles().
func buildStatusTree(r statusReport) statusNode {
	stores := []statusNode{}
	if st, ok := r.App.Favourites.(favourites.State); ok {
		stores = append(stores, storeNode("Favourites", st.LastError, map[string]string{
			"type":  "container",
			"count": strconv.Itoa(st.Count),
		}))
	}
	if st, ok := r.App.Notes.(notes.State); ok {
		stores = append(stores, storeNode("Private notes", st.Document.LastError, map[string]string{
			"type":      "container",
			"notes":     strconv.Itoa(st.Notes),
			"airfields": strconv.Itoa(st.Airfields),
		}))
	}
	if st, ok := r.App.Board.(board.State); ok {
		lastErr := st.LedgerDoc.LastError
		if lastErr == "" {
			lastErr = st.NotesDoc.LastError
		}
		stores = append(stores, storeNode("Public board", lastErr, map[string]string{
			"type":  "container",
			"notes": strconv.Itoa(st.Notes),
			"votes": strconv.Itoa(st.Votes),
		}))
	}

	netStatus := "suspended"
	if r.Connectivity.Online {
		netStatus = "running"
	}

	return statusNode{
		Name:   "runways " + r.Version,
		Status: "running",
		Metadata: map[string]string{
			"type":      "process",
			"path":      r.App.Path,
			"airfields": strconv.Itoa(r.App.Airfields),
		},
		Children: append(stores, statusNode{
			Name:   "Connectivity",
			Status: netStatus,
			Metadata: map[string]string{
				"type":    "goroutine",
				"address": r.Connectivity.Address,
			},
		}),
	}
}

func storeNode(name, lastErr string, meta map[string]string) statusNode {
	status := "running"
	if lastErr != "" {
		status = "failed"
		meta["error"] = lastErr
	}
	return statusNode{Name: name, Status: status, Metadata: meta}
}

func init() {
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
	rootCmd.AddCommand(statusCmd)
}
