package ui

import (
	"os"

	"gioui.org/app"
	log "github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
)

// Run opens the viewer window and blocks until it closes. It never
// returns on platforms where app.Main does not.
func Run(catalog *cdl.Catalog, opts Options) error {
	go func() {
		w := new(app.Window)
		viewer := New(w, catalog, opts)
		if err := viewer.Run(); err != nil {
			log.WithError(err).Error("ui: window closed with error")
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
