package cmd

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

var (
	drawOutput      string
	drawOrientation string
	drawScale       int
)

var drawCmd = &cobra.Command{
	Use:   "draw <model> <name>",
	Short: "Export the bit-layout diagram of a container as an image",
	Long: `Export a diagram. The format follows the output file extension:
png, jpg/jpeg, gif, bmp, tif/tiff or svg.

Examples:
  xtceview draw testdata/ccsds.cdl Housekeeping -o hk.png
  xtceview draw testdata/ccsds.cdl Set_Heater -o tc.svg --orientation ttb`,
	Args: cobra.ExactArgs(2),
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)

	drawCmd.Flags().StringVarP(&drawOutput, "output", "o", "",
		"output file; the extension selects the format")
	drawCmd.Flags().StringVar(&drawOrientation, "orientation", "",
		"ltr or ttb (default from config)")
	drawCmd.Flags().IntVar(&drawScale, "scale", 0,
		"pixels per bit unit (default from config)")

	drawCmd.MarkFlagRequired("output")
}

func runDraw(cmd *cobra.Command, args []string) error {
	orientation := cfg.Orientation
	if drawOrientation != "" {
		o, err := layout.ParseOrientation(drawOrientation)
		if err != nil {
			return err
		}
		orientation = o
	}
	opts := cfg.LayoutOptions()
	if drawScale > 0 {
		opts.Scale = drawScale
	}
	face := render.MustFace(cfg.FontSize)
	defer face.Close()
	opts.Measurer = layout.NewFaceMeasurer(face)

	cat, err := loadCatalog(args[0])
	if err != nil {
		return err
	}
	model, err := cat.Resolve(args[1])
	if err != nil {
		return err
	}

	view := layout.NewDrawing(model, cfg.Aliases).NewView(orientation, opts)
	if err := render.SaveFace(view, drawOutput, face); err != nil {
		return err
	}

	res := view.Layout()
	log.WithFields(log.Fields{
		"container":   model.Name,
		"orientation": orientation,
		"size":        res.Size(),
	}).Debug("Diagram written")
	abs, _ := filepath.Abs(drawOutput)
	fmt.Printf("Wrote %s (%dx%d, %d entries)\n", abs, res.Width, res.Height, view.Drawing().Len())
	if res.Warning != "" {
		fmt.Printf("Warning: %s\n", res.Warning)
	}
	return nil
}
