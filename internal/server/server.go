package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

// Options configure the preview server.
type Options struct {
	Addr     string
	Aliases  content.AliasPreferences
	Layout   layout.Options
	FontSize float64
}

// Server serves container listings and diagrams over HTTP.
type Server struct {
	catalog *cdl.Catalog
	opts    Options
	logger  *log.Entry

	mu       sync.Mutex
	drawings map[string]*layout.Drawing
}

// New returns a server for the catalog.
func New(catalog *cdl.Catalog, opts Options) *Server {
	return &Server{
		catalog:  catalog,
		opts:     opts,
		logger:   log.WithField("component", "server"),
		drawings: make(map[string]*layout.Drawing),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/containers", s.listContainers).Methods("GET")
	r.HandleFunc("/containers/{name}/entries", s.listEntries).Methods("GET")
	r.HandleFunc("/containers/{name}/diagram.{ext}", s.diagram).Methods("GET")
	r.Use(s.logRequests)
	return r
}

// Run listens on Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.opts.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.WithField("addr", ln.Addr().String()).Info("Serving diagrams")

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("Request")
	})
}

// drawing resolves and normalizes a container once. The drawing is
// immutable and shared by the views of all requests.
func (s *Server) drawing(name string) (*layout.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drawings[name]; ok {
		return d, nil
	}
	model, err := s.catalog.Resolve(name)
	if err != nil {
		return nil, err
	}
	d := layout.NewDrawing(model, s.opts.Aliases)
	s.drawings[name] = d
	return d, nil
}

type containerInfo struct {
	Name        string `json:"name"`
	Telecommand bool   `json:"telecommand"`
}

func (s *Server) listContainers(w http.ResponseWriter, r *http.Request) {
	names := s.catalog.Names()
	out := make([]containerInfo, 0, len(names))
	for _, name := range names {
		b, _ := s.catalog.Block(name)
		out = append(out, containerInfo{Name: name, Telecommand: b != nil && b.IsTelecommand()})
	}
	writeJSON(w, out)
}

type entryInfo struct {
	Container string `json:"container"`
	Name      string `json:"name"`
	Aliases   string `json:"aliases,omitempty"`
	StartBit  int    `json:"start_bit"`
	Size      int    `json:"size_in_bits"`
	Value     string `json:"value,omitempty"`
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}
	out := make([]entryInfo, 0, d.Len())
	for _, e := range d.Entries() {
		out = append(out, entryInfo{
			Container: e.ContainerName,
			Name:      e.ItemName,
			Aliases:   e.ItemAliases,
			StartBit:  e.StartBit,
			Size:      e.SizeInBits,
			Value:     e.Value,
		})
	}
	writeJSON(w, out)
}

func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(mux.Vars(r)["ext"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	orientation, err := layout.ParseOrientation(r.URL.Query().Get("orientation"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		if width, err = strconv.Atoi(v); err != nil || width <= 0 {
			http.Error(w, "width must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	d, ok := s.lookup(w, r)
	if !ok {
		return
	}

	face, err := render.NewFace(s.opts.FontSize)
	if err != nil {
		s.logger.WithError(err).Error("Cannot create font face")
		http.Error(w, "font unavailable", http.StatusInternalServerError)
		return
	}
	defer face.Close()

	opts := s.opts.Layout
	opts.Measurer = layout.NewFaceMeasurer(face)
	res := d.NewView(orientation, opts).Layout()
	if format != render.FormatSVG {
		if err := render.CheckSize(res); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	if width > 0 && format != render.FormatSVG {
		err = render.EncodeImage(w, render.Thumbnail(render.Rasterize(res, face), width), format)
	} else {
		err = render.Encode(w, res, format, face)
	}
	if err != nil {
		s.logger.WithError(err).WithField("container", d.Name()).Warn("Encoding diagram failed")
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*layout.Drawing, bool) {
	name := mux.Vars(r)["name"]
	d, err := s.drawing(name)
	if err != nil {
		if errors.Is(err, cdl.ErrUnknownBlock) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		s.logger.WithError(err).WithField("container", name).Error("Resolving container failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Encoding response failed")
	}
}
