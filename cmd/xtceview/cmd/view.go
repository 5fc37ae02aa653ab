package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceXTCE/internal/ui"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

var viewSaveDir string

var viewCmd = &cobra.Command{
	Use:   "view <model> [name]",
	Short: "Open the interactive diagram viewer",
	Long: `Open a window showing the diagram of a container. Pick another
container from the dropdown, press O to switch orientation, Ctrl+S to save
a PNG and Esc to close.

Examples:
  xtceview view testdata/ccsds.cdl
  xtceview view testdata/ccsds.cdl Housekeeping`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewSaveDir, "save-dir", ".",
		"directory images saved from the viewer are written to")
}

func runView(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(args[0])
	if err != nil {
		return err
	}
	opts := ui.Options{
		Aliases:     cfg.Aliases,
		Orientation: cfg.Orientation,
		Layout:      cfg.LayoutOptions(),
		FontSize:    cfg.FontSize,
		Palette:     render.ThemePalette(cfg.Theme),
		SaveDir:     viewSaveDir,
	}
	if len(args) == 2 {
		if _, err := cat.Resolve(args[1]); err != nil {
			return err
		}
		opts.Initial = args[1]
	}
	return ui.Run(cat, opts)
}
