package server

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := cdl.Load("../../testdata/ccsds.cdl")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	ts := httptest.NewServer(New(cat, Options{}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListContainers(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/containers")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got []containerInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []containerInfo{
		{Name: "CCSDS_Primary_Header"},
		{Name: "Secondary_Header"},
		{Name: "Housekeeping"},
		{Name: "Set_Heater", Telecommand: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("containers mismatch (-want +got):\n%s", diff)
	}
}

func TestListEntries(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/containers/Set_Heater/entries")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got []entryInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Name != "Setpoint" || last.StartBit != 56 || last.Size != 16 || last.Container != "Set_Heater" {
		t.Fatalf("unexpected last entry %+v", last)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].StartBit > got[i].StartBit {
			t.Fatalf("entries not sorted at %d", i)
		}
	}
}

func TestDiagramPNG(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/containers/Housekeeping/diagram.png?orientation=ttb")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() < layout.DefaultWidth || b.Dy() < layout.DefaultHeight {
		t.Fatalf("diagram smaller than the default canvas: %v", b)
	}
}

func TestDiagramThumbnail(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/containers/Housekeeping/diagram.png?width=200")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := img.Bounds().Dx(); w != 200 {
		t.Fatalf("thumbnail width %d, want 200", w)
	}
}

func TestDiagramSVG(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/containers/Set_Heater/diagram.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "Heater_Id") {
		t.Fatalf("svg lacks entry label")
	}
}

func TestDiagramErrors(t *testing.T) {
	ts := newTestServer(t)
	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/containers/Nope/diagram.png", http.StatusNotFound},
		{"/containers/Nope/entries", http.StatusNotFound},
		{"/containers/Housekeeping/diagram.webp", http.StatusBadRequest},
		{"/containers/Housekeeping/diagram.png?orientation=diagonal", http.StatusBadRequest},
		{"/containers/Housekeeping/diagram.png?width=-3", http.StatusBadRequest},
	} {
		if resp := get(t, ts.URL+tc.path); resp.StatusCode != tc.status {
			t.Fatalf("GET %s: status %d, want %d", tc.path, resp.StatusCode, tc.status)
		}
	}
}

func TestServeShutdown(t *testing.T) {
	cat, err := cdl.Load("../../testdata/ccsds.cdl")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cat, Options{}).Serve(ctx, ln) }()

	resp := get(t, "http://"+ln.Addr().String()+"/containers")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
