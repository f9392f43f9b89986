package main

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum/ebitenhost"
)

var (
	runFixture string
	runStats   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the editor in a window",
	Long: `Opens an interactive editor window. Keys V/Esc, H, Z, R and E select the
idle, pan, zoom, rectangle and ellipse tools; the middle button or space+drag
pans and the wheel zooms at the cursor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		game, err := ebitenhost.New(cfg)
		if err != nil {
			return err
		}
		if err := populate(game.Editor(), runFixture); err != nil {
			return err
		}
		return ebitenhost.Run(game, ebitenhost.RunConfig{Title: "vellum", ShowStats: runStats})
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFixture, "fixture", "f", "", "scene fixture to open")
	runCmd.Flags().BoolVar(&runStats, "stats", false, "show frame statistics")
	rootCmd.AddCommand(runCmd)
}
