//go:build windows

package scanner

import "io/fs"

// allocatedSize falls back to the logical size; Windows needs a separate
// call for compressed sizes.
func allocatedSize(info fs.FileInfo) int64 {
	return info.Size()
}

// Drives are separate roots on Windows, so no mount point detection
func deviceOf(info fs.FileInfo) (uint64, bool) {
	return 0, false
}

func rootDevice(path string) (uint64, bool) {
	return 0, false
}

func protectedLocations() []string {
	return []string{
		"System Volume Information",
		"$Recycle.Bin",
		"$RECYCLE.BIN",
		"$WinREAgent",
		"Config.Msi",
	}
}
