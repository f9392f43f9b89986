package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
	"github.com/phanxgames/vellum/ggsink"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render {fixture}",
	Short: "Render a scene fixture to an image",
	Long:  `Renders a scene fixture headlessly, framed to its bounds, and writes a PNG or QOI file chosen by the output extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
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

		if err := populate(h.editor, args[0]); err != nil {
			return err
		}
		if _, err := h.editor.Frame(); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}

		out := renderOut
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
		}
		switch strings.ToLower(filepath.Ext(out)) {
		case ".qoi":
			err = h.compositor.SaveQOI(out)
		case ".png":
			err = h.compositor.SavePNG(out)
		default:
			return fmt.Errorf("unsupported output format %q", filepath.Ext(out))
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// headless is an editor drawing into gg layers.
type headless struct {
	editor     *vellum.Editor
	canvas     *ggsink.Layer
	overlay    *ggsink.Layer
	compositor *ggsink.Compositor
}

func newHeadless(cfg vellum.Config) (*headless, error) {
	w, h := int(cfg.ViewportWidth), int(cfg.ViewportHeight)
	canvas, overlay := ggsink.NewLayer(w, h), ggsink.NewLayer(w, h)
	ed, err := vellum.NewEditor(cfg, canvas, overlay)
	if err != nil {
		canvas.Close()
		overlay.Close()
		return nil, err
	}
	return &headless{
		editor:     ed,
		canvas:     canvas,
		overlay:    overlay,
		compositor: ggsink.NewCompositor(vellum.Color{R: 1, G: 1, B: 1, A: 1}, canvas, overlay),
	}, nil
}

func (h *headless) close() {
	h.editor.Close()
	h.canvas.Close()
	h.overlay.Close()
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (.png or .qoi)")
	rootCmd.AddCommand(renderCmd)
}
