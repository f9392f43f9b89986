package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
	"github.com/phanxgames/vellum/internal/config"
	"github.com/phanxgames/vellum/internal/fixture"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vellum",
	Short: "vellum - geometry and interaction core of a vector editor",
	Long: `vellum hosts the editor core: a scene of transformed shapes, a spatial
index, a camera, a dirty-flag render scheduler and a pointer state machine.
It can open an interactive window or render fixtures and input scripts to
image files without a display.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		vellum.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "vellum.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func loadConfig() (vellum.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// populate adds the fixture at path, if any, to the editor's scene and
// frames it in the camera.
func populate(ed *vellum.Editor, path string) error {
	if path == "" {
		return nil
	}
	fx, err := fixture.Load(path)
	if err != nil {
		return err
	}
	group, err := fx.Populate(ed.Scene().Root())
	if err != nil {
		return fmt.Errorf("populating scene: %w", err)
	}
	vellum.Logger().Info("loaded fixture", slog.String("path", path), slog.Int("shapes", ed.Scene().Index().Len()))
	if b := group.WorldBoundingBox(); b.Valid() {
		return ed.Camera().FitBounds(b, 32)
	}
	return nil
}
