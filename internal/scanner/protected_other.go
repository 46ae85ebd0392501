//go:build !darwin && !windows

package scanner

func protectedLocations() []string {
	return []string{
		"lost+found",
		".Trash-1000",
		"/proc",
		"/sys",
		"/dev",
		"/run",
	}
}
