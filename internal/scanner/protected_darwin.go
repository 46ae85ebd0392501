//go:build darwin

package scanner

func protectedLocations() []string {
	return []string{
		".Spotlight-V100",
		".fseventsd",
		".Trashes",
		".DocumentRevisions-V100",
		".TemporaryItems",
		"/System/Volumes",
		"/private/var/vm",
		"/Volumes",
		"/dev",
	}
}
