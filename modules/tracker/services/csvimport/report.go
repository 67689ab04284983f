package csvimport

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteReport prints the people and categories a batch refers to.
func WriteReport(w io.Writer, b *Batch) error {
	if _, err := fmt.Fprintf(w, "Vendor prefix: %s\nRows: %d\n", displayPrefix(b.Prefix), len(b.Rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "People (%d): %s\n", len(b.People), strings.Join(b.People, ", ")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Categories (%d): %s\n", len(b.Categories), strings.Join(b.Categories, ", "))
	return err
}

func displayPrefix(p string) string {
	if p == "" {
		return "(unknown)"
	}
	return p
}

// WritePreview prints one line per validated item.
func WritePreview(w io.Writer, b *Batch) error {
	if _, err := fmt.Fprintf(w, "Dry run: %d item(s) would be imported\n", len(b.Items)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tNOTES")
	for _, it := range b.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", it.ID, it.Title, it.Status, len(it.Notes))
	}
	return tw.Flush()
}

func WriteSummary(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w,
		"Import complete for %s: %d imported, %d skipped (already present), %d categories created, next number %d\n",
		r.Vendor, r.Imported, r.Skipped, r.CategoriesCreated, r.NextNumber,
	)
	return err
}
