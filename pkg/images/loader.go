package images

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"

	"github.com/matzehuels/pagepack/pkg/cache"
	"github.com/matzehuels/pagepack/pkg/errors"
	"github.com/matzehuels/pagepack/pkg/observability"
)

// Loader expands input paths and measures every image on a worker pool.
// The returned descriptors follow input order regardless of scheduling.
type Loader struct {
	Decoder Decoder
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger

	// Workers bounds concurrent decodes. Zero means GOMAXPROCS.
	Workers int

	// SkipUnreadable logs and drops files that fail to decode instead of
	// aborting the load.
	SkipUnreadable bool
}

// NewLoader creates a loader without a cache.
func NewLoader(dec Decoder, logger *log.Logger) *Loader {
	if dec == nil {
		dec = ImagingDecoder{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		Decoder: dec,
		Cache:   cache.NewNullCache(),
		Keyer:   cache.NewDefaultKeyer(),
		Logger:  logger,
	}
}

// Expand resolves inputs into file paths. A directory contributes every
// regular file directly inside it, in name order. File paths are cleaned so
// one file spelled two ways is still one image.
func Expand(inputs []string) ([]string, error) {
	var paths []string
	for _, in := range inputs {
		if err := errors.ValidatePath(in); err != nil {
			return nil, err
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", in).WithPath(in)
		}
		if !info.IsDir() {
			paths = append(paths, filepath.Clean(in))
			continue
		}

		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", in).WithPath(in)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			paths = append(paths, filepath.Join(in, e.Name()))
		}
	}
	return paths, nil
}

// Load expands inputs and measures every file under lim.
func (l *Loader) Load(ctx context.Context, inputs []string, lim Limits) ([]Descriptor, error) {
	paths, err := Expand(inputs)
	if err != nil {
		return nil, err
	}
	return l.Measure(ctx, paths, lim)
}

// Measure builds one descriptor per path.
// The first failure by input order is returned, wrapped with its path.
func (l *Loader) Measure(ctx context.Context, paths []string, lim Limits) ([]Descriptor, error) {
	if l.Decoder == nil {
		l.Decoder = ImagingDecoder{}
	}
	if l.Keyer == nil {
		l.Keyer = cache.NewDefaultKeyer()
	}
	if l.Logger == nil {
		l.Logger = log.New(io.Discard)
	}

	workers := l.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "start worker pool")
	}
	defer pool.Release()

	descs := make([]Descriptor, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			descs[i], errs[i] = l.measure(ctx, path, lim)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = errors.Wrap(errors.ErrCodeInternal, err, "schedule %s", path)
		}
	}
	wg.Wait()

	out := make([]Descriptor, 0, len(paths))
	for i, err := range errs {
		if err == nil {
			out = append(out, descs[i])
			continue
		}
		if l.SkipUnreadable && errors.Is(err, errors.ErrCodeDecode) {
			l.Logger.Warn("skipping unreadable image", "path", paths[i], "err", errors.UserMessage(err))
			continue
		}
		return nil, err
	}
	return out, nil
}

// measurement is the cached part of a descriptor.
type measurement struct {
	SourceWidth   int `json:"sw"`
	SourceHeight  int `json:"sh"`
	ContentWidth  int `json:"cw"`
	ContentHeight int `json:"ch"`
}

func (l *Loader) measure(ctx context.Context, path string, lim Limits) (Descriptor, error) {
	key := ""
	if l.Cache != nil {
		if sum, err := cache.HashFile(path); err == nil {
			key = l.Keyer.MeasureKey(sum, cache.MeasureKeyOpts{
				MaxWidth:  lim.MaxWidth,
				MaxHeight: lim.MaxHeight,
				Margin:    lim.Margin,
			})
			if d, ok := l.cached(ctx, key, path, lim); ok {
				return d, nil
			}
		}
	}

	img, err := l.Decoder.Decode(path)
	if err != nil {
		return Descriptor{}, errors.Wrap(errors.ErrCodeDecode, err, "failed to load image from %s", path).WithPath(path)
	}
	b := img.Bounds()
	d := Describe(path, b.Dx(), b.Dy(), lim)
	l.Logger.Debug("measured image", "path", path, "source", sizeString(b.Dx(), b.Dy()), "content", sizeString(d.ContentWidth, d.ContentHeight))

	if key != "" {
		l.store(ctx, key, d)
	}
	return d, nil
}

func (l *Loader) cached(ctx context.Context, key, path string, lim Limits) (Descriptor, bool) {
	data, hit, err := l.Cache.Get(ctx, key)
	if err != nil {
		l.Logger.Debug("cache read failed", "path", path, "err", err)
		return Descriptor{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "measure")
		return Descriptor{}, false
	}
	var m measurement
	if err := json.Unmarshal(data, &m); err != nil {
		_ = l.Cache.Delete(ctx, key)
		return Descriptor{}, false
	}
	observability.Cache().OnCacheHit(ctx, "measure")
	return Descriptor{
		Path:          path,
		ContentWidth:  m.ContentWidth,
		ContentHeight: m.ContentHeight,
		Margin:        lim.Margin,
		SourceWidth:   m.SourceWidth,
		SourceHeight:  m.SourceHeight,
	}, true
}

func (l *Loader) store(ctx context.Context, key string, d Descriptor) {
	data, err := json.Marshal(measurement{
		SourceWidth:   d.SourceWidth,
		SourceHeight:  d.SourceHeight,
		ContentWidth:  d.ContentWidth,
		ContentHeight: d.ContentHeight,
	})
	if err != nil {
		return
	}
	if err := l.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		l.Logger.Debug("cache write failed", "path", d.Path, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "measure", len(data))
}
