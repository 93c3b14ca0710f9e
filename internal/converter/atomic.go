package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeAtomic runs write against a hidden temp file next to path and
// renames it into place once it is synced. On any failure the temp file is
// removed and path is left untouched.
func writeAtomic(path string, write func(io.Writer) error) (size int64, err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(file); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err = file.Sync(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	size = info.Size()

	if err = file.Close(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}

	return size, nil
}
