package main

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum/giosink"
)

var gioFixture string

var gioCmd = &cobra.Command{
	Use:   "gio",
	Short: "Open the editor in a Gio window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		host, err := giosink.NewHost(cfg)
		if err != nil {
			return err
		}
		if err := populate(host.Editor(), gioFixture); err != nil {
			return err
		}

		go func() {
			window := new(app.Window)
			window.Option(app.Title("vellum"), app.Size(unit.Dp(cfg.ViewportWidth), unit.Dp(cfg.ViewportHeight)))
			err := runGio(window, host)
			if cerr := host.Editor().Close(); err == nil {
				err = cerr
			}
			if err != nil {
				log.Fatal(err)
			}
			os.Exit(0)
		}()
		app.Main()
		return nil
	},
}

func runGio(window *app.Window, host *giosink.Host) error {
	var ops op.Ops
	for {
		switch e := window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			host.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func init() {
	gioCmd.Flags().StringVarP(&gioFixture, "fixture", "f", "", "scene fixture to open")
	rootCmd.AddCommand(gioCmd)
}
