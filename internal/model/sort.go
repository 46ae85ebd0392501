package model

import (
	"fmt"
	"sort"
	"strings"
)

// Order selects how a result is arranged
type Order int

const (
	// OrderSize puts the largest entries first
	OrderSize Order = iota
	// OrderDirsFirst puts directories before files, each group by name
	OrderDirsFirst
)

// String returns the wire name of the order
func (o Order) String() string {
	switch o {
	case OrderDirsFirst:
		return "dirs"
	default:
		return "size"
	}
}

// ParseOrder parses the wire name of an order. Empty means OrderSize.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "size":
		return OrderSize, nil
	case "dirs", "dirs-first", "name":
		return OrderDirsFirst, nil
	default:
		return OrderSize, fmt.Errorf("unknown order %q: must be size or dirs", s)
	}
}

// Sort arranges entries in place according to o
func (o Order) Sort(entries []Entry) {
	switch o {
	case OrderDirsFirst:
		SortDirsFirst(entries)
	default:
		SortBySize(entries)
	}
}

// SortBySize sorts entries by size descending, then by path ascending
func SortBySize(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		si, sj := entries[i].SizeBytes, entries[j].SizeBytes
		if si != sj {
			return si > sj
		}
		return entries[i].Path < entries[j].Path
	})
}

// SortDirsFirst sorts directories before files. Both groups are ordered
// by case-insensitive name, then by path.
func SortDirsFirst(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].Path < entries[j].Path
	})
}
