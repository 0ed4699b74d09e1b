package document

import (
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/pagepack/pkg/errors"
)

// WriteFile serializes doc to path. The bytes go to a temporary file in the
// same directory, which is renamed over path only after a complete write, so
// a failure never leaves a partial document behind.
func WriteFile(path string, doc io.WriterTo) (int64, error) {
	if err := errors.ValidatePath(path); err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pagepack-*.pdf")
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "create output in %s", dir).WithPath(path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := doc.WriteTo(tmp)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "write %s", path).WithPath(path)
	}
	if err := tmp.Sync(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "sync %s", path).WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "close %s", path).WithPath(path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "chmod %s", path).WithPath(path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return 0, errors.Wrap(errors.ErrCodeIO, err, "rename output to %s", path).WithPath(path)
	}
	committed = true
	return n, nil
}
