//go:build darwin

package ui

import "os/exec"

// openInFileManager reveals the path in Finder
func openInFileManager(path string) error {
	return exec.Command("open", "-R", path).Start()
}
