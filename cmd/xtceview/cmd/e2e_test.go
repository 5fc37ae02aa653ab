package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background to prevent pipe buffer from blocking on Windows
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	// Reset flags to prevent accumulation between tests
	outputJSON = false
	drawOutput = ""
	drawOrientation = ""
	drawScale = 0
	configFile = ""
	verbose = false

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Restore stdout and wait for reader
	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

func testModel(t *testing.T) string {
	t.Helper()
	for _, p := range []string{"../../../testdata/ccsds.cdl", "../../testdata/ccsds.cdl"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("testdata/ccsds.cdl not found")
	return ""
}

func TestInfoE2E(t *testing.T) {
	model := testModel(t)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "list",
			args: []string{"info", model},
			wantContain: []string{
				"Found 4 container(s) and telecommand(s)",
				"CCSDS_Primary_Header",
				"Housekeeping",
				"telecommand",
			},
		},
		{
			name: "container",
			args: []string{"info", model, "Housekeeping"},
			wantContain: []string{
				"Housekeeping (container), 144 bits",
				"Resolved content:",
				"Extended_Status",
				"Drawable entries: 14",
				"Battery_Voltage",
				"Solar_Array_Deployed = 1",
			},
		},
		{
			name: "telecommand json",
			args: []string{"info", "--json", model, "Set_Heater"},
			wantContain: []string{
				`"telecommand": true`,
				`"total_bits": 72`,
				`"name": "Setpoint"`,
			},
		},
		{
			name:    "unknown container",
			args:    []string{"info", model, "Nope"},
			wantErr: true,
		},
		{
			name:    "missing model",
			args:    []string{"info", filepath.Join(t.TempDir(), "absent.cdl")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestDrawE2E(t *testing.T) {
	model := testModel(t)
	dir := t.TempDir()

	for _, orientation := range []string{"ltr", "ttb"} {
		out := filepath.Join(dir, "hk-"+orientation+".png")
		output, err := runCLI(t, "draw", model, "Housekeeping", "-o", out, "--orientation", orientation)
		if err != nil {
			t.Fatalf("draw %s: %v\nOutput: %s", orientation, err, output)
		}
		if !strings.Contains(output, "Wrote") || !strings.Contains(output, "14 entries") {
			t.Fatalf("unexpected output: %s", output)
		}

		f, err := os.Open(out)
		if err != nil {
			t.Fatalf("open %s: %v", out, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", out, err)
		}
		if b := img.Bounds(); b.Dx() < 800 || b.Dy() < 600 {
			t.Fatalf("%s: image %v smaller than the default canvas", orientation, b)
		}
	}

	svg := filepath.Join(dir, "tc.svg")
	if output, err := runCLI(t, "draw", model, "Set_Heater", "-o", svg); err != nil {
		t.Fatalf("draw svg: %v\nOutput: %s", err, output)
	}
	data, err := os.ReadFile(svg)
	if err != nil || !bytes.Contains(data, []byte("<svg")) {
		t.Fatalf("svg not written: %v", err)
	}
}

func TestDrawErrorsE2E(t *testing.T) {
	model := testModel(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "draw", model, "Housekeeping", "-o", filepath.Join(dir, "noext")); err == nil {
		t.Errorf("expected error for output without extension")
	}
	if _, err := runCLI(t, "draw", model, "Housekeeping", "-o", filepath.Join(dir, "hk.webp")); err == nil {
		t.Errorf("expected error for unsupported format")
	}
	if _, err := runCLI(t, "draw", model, "Housekeeping", "-o", filepath.Join(dir, "hk.png"), "--orientation", "diagonal"); err == nil {
		t.Errorf("expected error for bad orientation")
	}
}
