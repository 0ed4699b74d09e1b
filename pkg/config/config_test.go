package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pagepack/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestParse(t *testing.T) {
	got, err := Parse(`
paper = "letter"
dpi = 600
border = 5.0
margin = 2.0
max_image_width = 120.5
skip_unreadable = true
output = "scans.pdf"

[cache]
url = "redis://localhost:6379/0"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := &File{
		Paper:          "letter",
		DPI:            ptr(600),
		Border:         ptr(5.0),
		Margin:         ptr(2.0),
		MaxImageWidth:  ptr(120.5),
		SkipUnreadable: ptr(true),
		Output:         "scans.pdf",
		Cache:          Cache{URL: "redis://localhost:6379/0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", `dpi = `, errors.ErrCodeInvalidInput},
		{"unknown key", `dpii = 300`, errors.ErrCodeInvalidInput},
		{"wrong type", `dpi = "high"`, errors.ErrCodeInvalidInput},
		{"unknown paper", `paper = "b4"`, errors.ErrCodeInvalidPaper},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse(%q) error = %v, want %s", tt.data, err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagepack.toml")
	if err := os.WriteFile(path, []byte("workers = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Workers == nil || *f.Workers != 3 {
		t.Errorf("Workers = %v, want 3", f.Workers)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("Load(missing) error = %v, want IO_FAILURE", err)
	}
}

func TestLookupPaper(t *testing.T) {
	tests := []struct {
		name string
		want Paper
	}{
		{"a4", Paper{Name: "a4", Width: 210, Height: 297}},
		{" A4 ", Paper{Name: "a4", Width: 210, Height: 297}},
		{"a3", Paper{Name: "a3", Width: 297, Height: 420}},
		{"letter-landscape", Paper{Name: "letter-landscape", Width: 279.4, Height: 215.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupPaper(tt.name)
			if err != nil {
				t.Fatalf("LookupPaper(%q): %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("LookupPaper(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}

	if _, err := LookupPaper("tabloid"); !errors.Is(err, errors.ErrCodeInvalidPaper) {
		t.Errorf("LookupPaper(tabloid) error = %v, want INVALID_PAPER", err)
	}
}

func TestPaperNames(t *testing.T) {
	want := []string{"a3", "a4", "a5", "legal", "letter"}
	if diff := cmp.Diff(want, PaperNames()); diff != "" {
		t.Errorf("PaperNames mismatch (-want +got):\n%s", diff)
	}
}
