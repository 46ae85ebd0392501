// Package trash removes entries found by a scan, either permanently or by
// moving them to the platform's trash.
package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bios-Marcel/wastebasket/v2"

	"github.com/lumipallolabs/sizescope/internal/logging"
)

// Error describes a failed delete or trash operation
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, fs.ErrNotExist):
		return fmt.Sprintf("failed to %s %s: no such file or directory", e.Op, e.Path)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("failed to %s %s: permission denied", e.Op, e.Path)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Delete permanently removes path and everything below it. A missing path
// is an error, so callers can tell a no-op from a deletion.
func Delete(path string) error {
	abs, err := target("delete", path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return &Error{Op: "delete", Path: abs, Err: err}
	}
	logging.Debug.Printf("deleted %s", abs)
	return nil
}

// Trash moves path to the platform trash: the freedesktop.org trash of the
// volume holding path on linux and BSD, the Finder trash on macOS and the
// Recycle Bin on windows.
func Trash(path string) error {
	abs, err := target("trash", path)
	if err != nil {
		return err
	}
	if err := wastebasket.Trash(abs); err != nil {
		return &Error{Op: "trash", Path: abs, Err: err}
	}
	logging.Debug.Printf("trashed %s", abs)
	return nil
}

// target resolves path and checks that it exists and is not a filesystem root
func target(op, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &Error{Op: op, Path: path, Err: err}
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return "", &Error{Op: op, Path: abs, Err: errors.New("refusing to remove a filesystem root")}
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", &Error{Op: op, Path: abs, Err: err}
	}
	return abs, nil
}
