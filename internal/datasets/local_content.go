package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// ComplianceName tracks local content compliance per company.
const ComplianceName = "compliance"

var complianceSchema = records.MustSchema("id",
	text("id", "Report ID"),
	text("company", "Company"),
	category("category", "Category"),
	number("localShare", "Local Share (%)"),
	number("target", "Target (%)"),
	category("status", "Status"),
	date("reviewed", "Last Review"),
)

var complianceSeed = []records.Record{
	{"id": "LC-2024-01", "company": "Tullow Oil plc", "category": "employment", "localShare": 82.5, "target": 80, "status": "compliant", "reviewed": "2024-03-05"},
	{"id": "LC-2024-02", "company": "Eni Ghana Exploration", "category": "procurement", "localShare": 41, "target": 50, "status": "non_compliant", "reviewed": "2024-02-27"},
	{"id": "LC-2024-03", "company": "Kosmos Energy Ghana", "category": "training", "localShare": 68, "target": 70, "status": "under_review", "reviewed": "2024-03-12"},
	{"id": "LC-2024-04", "company": "Aker Energy Ghana", "category": "employment", "localShare": 75, "target": 80, "status": "under_review", "reviewed": "2024-01-30"},
	{"id": "LC-2024-05", "company": "Springfield E&P", "category": "procurement", "localShare": 91, "target": 50, "status": "compliant", "reviewed": "2024-03-14"},
}

// Compliance is the local content officer's compliance tracker.
func Compliance() *Dataset {
	return &Dataset{
		Name:       ComplianceName,
		Title:      "Local Content Compliance",
		Role:       shared.RoleLocalContentOfficer,
		Collection: records.MustCollection(complianceSchema, complianceSeed),
		Projection: records.MustProjection(complianceSchema,
			[]string{"id", "company", "category", "localShare", "status"},
			records.Group{Title: "Report", Fields: []string{"id", "company", "category", "status", "reviewed"}},
			records.Group{Title: "Performance", Fields: []string{"localShare", "target"}},
		),
		Filters:     []string{"category", "status"},
		DateField:   "reviewed",
		DefaultSort: &records.SortSpec{Field: "localShare", Direction: records.Desc},
		ChartGroup:  "category",
		ChartSum:    "localShare",
	}
}
