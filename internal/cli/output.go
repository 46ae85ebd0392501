package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/sizescope/internal/model"
)

// TabSpacing is the number of spaces between tabwriter columns
const TabSpacing = 2

// PrintJSON writes v as indented JSON
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}

// PrintEntries writes a result as a table, largest share first as given
func PrintEntries(result model.Result, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	total := result.TotalBytes()
	fmt.Fprintln(w, "SIZE\tSHARE\tTYPE\tMODIFIED\tPATH")
	for _, e := range result {
		pct := 0.0
		if total > 0 {
			pct = 100.0 * float64(e.SizeBytes) / float64(total)
		}
		modified := "-"
		if e.LastModified != nil {
			modified = *e.LastModified
		}
		fmt.Fprintf(w, "%s\t%.1f%%\t%s\t%s\t%s\n", e.Size, pct, e.Type, modified, e.Path)
	}
	fmt.Fprintf(w, "\nTotal:\t%s (%d bytes) in %s entries\n",
		model.FormatBytes(total), total, humanize.Comma(int64(len(result))))

	return w.Flush()
}

// PrintVolumes writes volumes as a table
func PrintVolumes(volumes []model.Volume, defaultPath string, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "NAME\tPATH\tUSED\tFREE\tTOTAL\tUSE%")
	for _, v := range volumes {
		name := v.Name
		if v.Path == defaultPath {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\n",
			name, v.Path, v.UsedSpace, v.FreeSpace, v.TotalSpace, v.UsagePercent)
	}
	return w.Flush()
}

// PrintTree writes an entry and its attached children indented by level
func PrintTree(root model.Entry, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	var walk func(e model.Entry, indent string)
	walk = func(e model.Entry, indent string) {
		fmt.Fprintf(w, "%s\t%s%s\n", e.Size, indent, e.Name)
		for _, child := range e.Children {
			walk(child, indent+"  ")
		}
	}
	walk(root, "")
	return w.Flush()
}
