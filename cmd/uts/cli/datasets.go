package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/petrocom/uts/internal/datasets"
)

// DatasetSummary is one row of the datasets command.
type DatasetSummary struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Role    string `json:"role"`
	Records int    `json:"records"`
	Filters int    `json:"filters"`
}

// DatasetsCommand lists the catalog as a table or as JSON.
func DatasetsCommand(catalog *datasets.Catalog, jsonOutput bool, stdout io.Writer) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	var rows []DatasetSummary
	for _, d := range catalog.All() {
		role := string(d.Role)
		if d.Public() {
			role = "public"
		}
		rows = append(rows, DatasetSummary{Name: d.Name, Title: d.Title, Role: role, Records: d.Collection.Len(), Filters: len(d.Filters)})
	}
	if jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tROLE\tRECORDS\tTITLE")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Name, r.Role, r.Records, r.Title)
	}
	return tw.Flush()
}
