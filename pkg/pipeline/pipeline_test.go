package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/observability"
	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/units"
)

// =============================================================================
// Options
// =============================================================================

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantWidth  units.Mm
		wantHeight units.Mm
		wantErr    errors.Code
	}{
		{name: "zero value", opts: Options{}, wantWidth: 210, wantHeight: 297},
		{name: "paper preset", opts: Options{Paper: "letter"}, wantWidth: 215.9, wantHeight: 279.4},
		{name: "explicit size beats preset", opts: Options{Paper: "a3", Width: 100}, wantWidth: 100, wantHeight: 420},
		{name: "landscape preset", opts: Options{Paper: "a4-landscape"}, wantWidth: 297, wantHeight: 210},
		{name: "unknown paper", opts: Options{Paper: "b7"}, wantErr: errors.ErrCodeInvalidPaper},
		{name: "dpi too low", opts: Options{DPI: 10}, wantErr: errors.ErrCodeInvalidInput},
		{name: "negative border", opts: Options{Border: -1}, wantErr: errors.ErrCodeInvalidInput},
		{name: "negative margin", opts: Options{Margin: -0.5}, wantErr: errors.ErrCodeInvalidInput},
		{name: "negative width", opts: Options{Width: -210}, wantErr: errors.ErrCodeInvalidInput},
		{name: "negative workers", opts: Options{Workers: -2}, wantErr: errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if opts.Width != tt.wantWidth || opts.Height != tt.wantHeight {
				t.Errorf("size = %sx%s, want %sx%s", opts.Width, opts.Height, tt.wantWidth, tt.wantHeight)
			}
			if opts.DPI != DefaultDPI || opts.Output != DefaultOutput || opts.Logger == nil {
				t.Errorf("defaults not applied: %+v", opts)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Width != first.Width || opts.DPI != first.DPI || opts.Output != first.Output {
		t.Error("second call changed the options")
	}
}

func TestGeometry(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxImageWidth = 100
	geo, err := opts.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}

	if geo.Container != (packing.Container{Width: 2410, Height: 3438}) {
		t.Errorf("Container = %v, want 2410x3438", geo.Container)
	}
	want := images.Limits{MaxWidth: 1181, Margin: 6}
	if geo.Limits != want {
		t.Errorf("Limits = %+v, want %+v", geo.Limits, want)
	}
	if geo.Frame.Border != 3 || geo.Frame.DPI != 300 {
		t.Errorf("Frame = %+v", geo.Frame)
	}

	// A positive cap under half a pixel still caps.
	opts = DefaultOptions()
	opts.MaxImageWidth = 0.04
	opts.MaxImageHeight = 0.01
	geo, err = opts.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if geo.Limits.MaxWidth != 1 || geo.Limits.MaxHeight != 1 {
		t.Errorf("tiny caps = %dx%d px, want 1x1", geo.Limits.MaxWidth, geo.Limits.MaxHeight)
	}

	opts = DefaultOptions()
	opts.Border = 150
	if _, err := opts.Geometry(); !errors.Is(err, errors.ErrCodeInvalidPaper) {
		t.Errorf("Geometry with oversized border error = %v, want INVALID_PAPER", err)
	}
}

// =============================================================================
// Runner
// =============================================================================

// blank is an opaque white image of a given size that allocates no pixels.
type blank struct{ r image.Rectangle }

func (b blank) ColorModel() color.Model { return color.RGBAModel }
func (b blank) Bounds() image.Rectangle { return b.r }
func (b blank) At(x, y int) color.Color { return color.White }
func (b blank) Opaque() bool            { return true }

// fixture creates empty files in a temp dir and a decoder that reports the
// given size for each of them.
type fixture struct {
	dir   string
	paths []string
	sizes map[string]image.Point
}

func newFixture(t *testing.T) *fixture {
	return &fixture{dir: t.TempDir(), sizes: make(map[string]image.Point)}
}

func (f *fixture) add(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	f.paths = append(f.paths, path)
	f.sizes[path] = image.Pt(w, h)
	return path
}

func (f *fixture) Decode(path string) (image.Image, error) {
	sz, ok := f.sizes[path]
	if !ok {
		return nil, fmt.Errorf("unsupported image format")
	}
	return blank{image.Rect(0, 0, sz.X, sz.Y)}, nil
}

func newTestRunner(dec images.Decoder) *Runner {
	r := NewRunner(nil, nil, log.New(io.Discard))
	r.Decoder = dec
	return r
}

func TestPlanTwoImagesOnePage(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a.png", 2000, 1500)
	f.add(t, "b.png", 2000, 1500)

	plan, err := newTestRunner(f).Plan(context.Background(), []string{f.dir}, DefaultOptions())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := plan.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if len(plan.Pages) != 1 || len(plan.Pages[0].Items) != 2 {
		t.Fatalf("pages = %+v, want one page with both images", plan.Pages)
	}
	for _, p := range plan.Placements[0] {
		if p.Rotated {
			t.Errorf("%s rotated, want upright", p.Item.Image.Name())
		}
	}
	if plan.RunID == "" {
		t.Error("RunID is empty")
	}
	if plan.Stats.Images != 2 || plan.Stats.Pages != 1 || plan.Stats.Rotated != 0 {
		t.Errorf("Stats = %+v", plan.Stats)
	}
}

func TestPlanSameFileTwoSpellings(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a.png", 2000, 1500)
	inputs := []string{a, filepath.Join(f.dir, ".") + string(filepath.Separator) + "a.png"}

	plan, err := newTestRunner(f).Plan(context.Background(), inputs, DefaultOptions())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	placed := 0
	for _, p := range plan.Pages {
		placed += len(p.Items)
	}
	if placed != 1 {
		t.Errorf("placed %d images, want 1", placed)
	}
}

func TestPlanOverflow(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.add(t, fmt.Sprintf("img%d.png", i), 1500, 1500)
	}

	plan, err := newTestRunner(f).Plan(context.Background(), f.paths, DefaultOptions())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Pages) < 2 {
		t.Errorf("got %d pages, want at least 2", len(plan.Pages))
	}
	if err := plan.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestPlanShrinksToCaps(t *testing.T) {
	f := newFixture(t)
	f.add(t, "big.png", 4000, 1000)

	opts := DefaultOptions()
	opts.MaxImageWidth = 100 // 1181 px at 300 dpi
	plan, err := newTestRunner(f).Plan(context.Background(), f.paths, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	d := plan.Images[0]
	if d.ContentWidth != 1181 || d.ContentHeight != 295 {
		t.Errorf("content = %dx%d, want 1181x295", d.ContentWidth, d.ContentHeight)
	}
}

func TestExecuteWritesDocument(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a.png", 200, 150)
	f.add(t, "b.png", 150, 300)
	f.add(t, "c.png", 90, 90)

	opts := DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "out.pdf")

	res, err := newTestRunner(f).Execute(context.Background(), []string{f.dir}, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data[:4]) != "%PDF" {
		t.Errorf("output starts with %q, want %%PDF", data[:4])
	}
	if res.Bytes != int64(len(data)) || res.Output != opts.Output {
		t.Errorf("Result = %+v, file has %d bytes", res, len(data))
	}
	if res.Stats.Images != 3 || res.Stats.Pages != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestExecuteImageTooLarge(t *testing.T) {
	f := newFixture(t)
	huge := f.add(t, "huge.png", 10000, 10000)

	opts := DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "out.pdf")

	_, err := newTestRunner(f).Execute(context.Background(), f.paths, opts)
	if !errors.Is(err, errors.ErrCodeImageTooLarge) {
		t.Fatalf("Execute error = %v, want IMAGE_TOO_LARGE", err)
	}
	if got := errors.GetPath(err); got != huge {
		t.Errorf("error path = %q, want %q", got, huge)
	}
	if _, err := os.Stat(opts.Output); !os.IsNotExist(err) {
		t.Errorf("output exists after failure: %v", err)
	}
}

func TestExecuteDecodeFailure(t *testing.T) {
	f := newFixture(t)
	f.add(t, "ok.png", 100, 100)
	bad := filepath.Join(f.dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "out.pdf")

	_, err := newTestRunner(f).Execute(context.Background(), []string{f.dir}, opts)
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Fatalf("Execute error = %v, want DECODE_FAILURE", err)
	}
	if got := errors.GetPath(err); got != bad {
		t.Errorf("error path = %q, want %q", got, bad)
	}
	if _, err := os.Stat(opts.Output); !os.IsNotExist(err) {
		t.Errorf("output exists after failure: %v", err)
	}

	opts.SkipUnreadable = true
	res, err := newTestRunner(f).Execute(context.Background(), []string{f.dir}, opts)
	if err != nil {
		t.Fatalf("Execute with SkipUnreadable: %v", err)
	}
	if res.Stats.Images != 1 {
		t.Errorf("placed %d images, want 1", res.Stats.Images)
	}
}

func TestPlanEmptyInputs(t *testing.T) {
	r := newTestRunner(newFixture(t))

	if _, err := r.Plan(context.Background(), nil, DefaultOptions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Plan(nil) error = %v, want INVALID_INPUT", err)
	}
	if _, err := r.Plan(context.Background(), []string{t.TempDir()}, DefaultOptions()); !errors.Is(err, errors.ErrCodeNothingToPlace) {
		t.Errorf("Plan(empty dir) error = %v, want NOTHING_TO_PLACE", err)
	}
}

func TestPlanDeterministic(t *testing.T) {
	f := newFixture(t)
	for i, sz := range [][2]int{{1200, 800}, {300, 2000}, {900, 900}, {2300, 400}, {640, 480}, {1000, 1400}, {50, 50}} {
		f.add(t, fmt.Sprintf("%02d.png", i), sz[0], sz[1])
	}

	r := newTestRunner(f)
	first, err := r.Plan(context.Background(), f.paths, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Plan(context.Background(), f.paths, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.Pages, second.Pages); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
}

// =============================================================================
// Hooks
// =============================================================================

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, int) { h.record("load-start") }
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.record("load-done")
}
func (h *recordingHooks) OnPackStart(context.Context, int)            { h.record("pack-start") }
func (h *recordingHooks) OnPagePacked(context.Context, int, int, int) { h.record("page") }
func (h *recordingHooks) OnPackComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.record("pack-done")
}
func (h *recordingHooks) OnRenderStart(context.Context, int) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, _ int, _ int64, _ time.Duration, _ error) {
	h.record("render-done")
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	f := newFixture(t)
	f.add(t, "a.png", 100, 100)
	opts := DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "out.pdf")

	if _, err := newTestRunner(f).Execute(context.Background(), f.paths, opts); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []string{"load-start", "load-done", "pack-start", "page", "pack-done", "render-start", "render-done"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}
