package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
	"github.com/phanxgames/vellum/ggsink"
)

var (
	playFixture   string
	playOutDir    string
	playFormat    string
	playMaxFrames int
)

var playCmd = &cobra.Command{
	Use:   "play {script.json}",
	Short: "Replay an input script headlessly",
	Long: `Replays a JSON input script (clicks, drags, wheel steps, tool changes and
snapshots) against a headless editor and writes every snapshot to the
output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		runner, err := vellum.LoadTestScript(data)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		h, err := newHeadless(cfg)
		if err != nil {
			return err
		}
		defer h.close()
		if err := populate(h.editor, playFixture); err != nil {
			return err
		}
		if err := os.MkdirAll(playOutDir, 0o755); err != nil {
			return err
		}

		snaps := &ggsink.FileSnapshotter{Dir: playOutDir, Format: playFormat, Compositor: h.compositor}
		h.editor.SetSnapshotter(snaps)
		h.editor.SetTestRunner(runner)

		const dt = 1.0 / 60
		frames := 0
		for !runner.Done() {
			if frames >= playMaxFrames {
				return fmt.Errorf("script did not finish within %d frames", playMaxFrames)
			}
			h.editor.Update(dt)
			if _, err := h.editor.Frame(); err != nil {
				return fmt.Errorf("frame %d: %w", frames, err)
			}
			frames++
		}
		for _, path := range snaps.Written() {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return errors.Join(runner.Errors()...)
	},
}

func init() {
	playCmd.Flags().StringVarP(&playFixture, "fixture", "f", "", "scene fixture to load first")
	playCmd.Flags().StringVarP(&playOutDir, "out", "o", "snapshots", "snapshot directory")
	playCmd.Flags().StringVar(&playFormat, "format", ggsink.FormatPNG, "snapshot format (png or qoi)")
	playCmd.Flags().IntVar(&playMaxFrames, "max-frames", 10000, "abort after this many frames")
	rootCmd.AddCommand(playCmd)
}
