package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceXTCE/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <model>",
	Short: "Serve container listings and diagrams over HTTP",
	Long: `Start an HTTP preview server.

Routes:
  GET /containers
  GET /containers/{name}/entries
  GET /containers/{name}/diagram.{png,jpg,gif,bmp,tiff,svg}?orientation=ttb&width=400

Examples:
  xtceview serve testdata/ccsds.cdl
  xtceview serve testdata/ --addr :9000`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(args[0])
	if err != nil {
		return err
	}
	addr := cfg.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cat, server.Options{
		Addr:     addr,
		Aliases:  cfg.Aliases,
		Layout:   cfg.LayoutOptions(),
		FontSize: cfg.FontSize,
	})
	return srv.Run(ctx)
}
