//go:build !windows && !darwin

package ui

import (
	"os"
	"os/exec"
	"path/filepath"
)

// openInFileManager hands the directory holding path to xdg-open
func openInFileManager(path string) error {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}
	return exec.Command("xdg-open", path).Start()
}
