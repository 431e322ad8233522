package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/runways"
	"github.com/aretw0/runways/pkg/connectivity"
)

var (
	dataDir      string
	configPath   string
	verbose      bool
	prefsBackend string
	offline      bool
	jsonOutput   bool

	settings fileConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "runways",
	Short: "Airfield reference, favourites, private notes and the pilot board",
	Long: `runways keeps a pilot's airfield data on the local device.
The reference catalog is built in; favourites, private notes and the public
board with this device's votes live as plain JSON files in the data directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		settings = cfg

		level := slog.LevelInfo
		if verbose || settings.Verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default $RUNWAYS_HOME or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default runways.yaml found upwards, then in the data dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&prefsBackend, "prefs", "", "Preference backend: file or sqlite")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Treat the device as offline")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
}

// resolveConfig loads --config, else runways.yaml above the working
// directory, else runways.yaml in the data directory. Flags win over file.
func resolveConfig(cmd *cobra.Command) (fileConfig, error) {
	if configPath != "" {
		return loadConfig(configPath, true)
	}
	if wd, err := os.Getwd(); err == nil {
		if found, err := runways.FindConfig(wd); err == nil {
			return loadConfig(found, true)
		}
	}
	dir := dataDir
	if dir == "" {
		def, err := runways.DefaultDataDir()
		if err != nil {
			return fileConfig{}, nil
		}
		dir = def
	}
	return loadConfig(filepath.Join(dir, "runways.yaml"), false)
}

func effectiveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	return settings.DataDir
}

func effectiveBackend() string {
	if prefsBackend != "" {
		return prefsBackend
	}
	if settings.Preferences != "" {
		return settings.Preferences
	}
	return runways.PreferencesFile
}

// openApp builds the App from flags and config. Swallowed persistence
// failures are surfaced as warnings on stderr.
func openApp(cmd *cobra.Command, opts ...runways.Option) (*runways.App, error) {
	stderr := cmd.ErrOrStderr()
	base := []runways.Option{
		runways.WithLogger(slog.Default()),
		runways.WithPreferences(effectiveBackend()),
		runways.WithErrorHandler(func(err error) {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}),
	}
	app, err := runways.Open(effectiveDataDir(), append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return app, nil
}

// connectivityProvider honours --offline, else probes once.
func connectivityProvider(cmd *cobra.Command) connectivity.Provider {
	if offline {
		return connectivity.Static(false)
	}
	m := newMonitor()
	m.Probe(cmd.Context())
	return m
}

func newMonitor() *connectivity.Monitor {
	return connectivity.NewMonitor(connectivity.Config{
		Address:  settings.ProbeAddress,
		Interval: settings.interval(),
		Retries:  settings.ProbeRetries,
		Logger:   slog.Default().With("component", "connectivity"),
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
