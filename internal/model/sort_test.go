package model

import "testing"

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortBySize(t *testing.T) {
	entries := []Entry{
		NewEntry("/data/small", false, 100),
		NewEntry("/data/large", false, 1000),
		NewEntry("/data/medium", true, 500),
	}

	SortBySize(entries)

	if got, want := names(entries), []string{"large", "medium", "small"}; !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortBySizeTieBreaksOnPath(t *testing.T) {
	entries := []Entry{
		NewEntry("/data/z", false, 10),
		NewEntry("/data/m", false, 10),
		NewEntry("/data/a", false, 10),
	}

	SortBySize(entries)

	if got, want := names(entries), []string{"a", "m", "z"}; !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortDirsFirst(t *testing.T) {
	entries := []Entry{
		NewEntry("/data/b", false, 2048),
		NewEntry("/data/Zeta", true, 1),
		NewEntry("/data/a", false, 100),
		NewEntry("/data/c", true, 1048576),
	}

	SortDirsFirst(entries)

	if got, want := names(entries), []string{"c", "Zeta", "a", "b"}; !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"": OrderSize, "size": OrderSize, "dirs": OrderDirsFirst, "DIRS-FIRST": OrderDirsFirst} {
		got, err := ParseOrder(in)
		if err != nil {
			t.Fatalf("ParseOrder(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseOrder(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Error("expected error for unknown order")
	}
}
