package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScenesCommand(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"go-pathtracer", "scenes", "--assets", t.TempDir()}); err != nil {
		t.Fatalf("scenes failed: %v", err)
	}
	for _, id := range []string{"cornell", "cornell-smoke", "spheres", "quads"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("Expected %q in the listing:\n%s", id, out.String())
		}
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames", "quads.png")
	args := []string{"go-pathtracer", "render",
		"--scene", "quads", "--width", "12", "--height", "9",
		"--samples", "1", "--max-depth", "3", "--seed", "5", "--out", out}

	if err := newApp().Run(args); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Expected a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 9 {
		t.Errorf("Expected 12x9, got %v", b)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"--scene", "nonexistent"}},
		{"missing earth texture", []string{"--scene", "earth", "--assets", t.TempDir()}},
		{"missing mesh", []string{"--scene", "mesh", "--mesh", filepath.Join(t.TempDir(), "none.obj")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"go-pathtracer", "render", "--width", "4", "--height", "4"}, tt.args...)
			if err := newApp().Run(args); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
