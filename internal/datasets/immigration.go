package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// WorkPermitsName is the immigration officer's permit queue.
const WorkPermitsName = "work-permits"

var permitSchema = records.MustSchema("id",
	text("id", "Permit ID"),
	text("applicant", "Applicant"),
	text("nationality", "Nationality"),
	text("company", "Company"),
	text("position", "Position"),
	category("permitType", "Permit Type"),
	category("status", "Status"),
	date("submitted", "Submitted"),
	date("expiry", "Expiry"),
)

var permitSeed = []records.Record{
	{"id": "WP-2024-101", "applicant": "James Wilson", "nationality": "British", "company": "Tullow Oil plc", "position": "Drilling Supervisor", "permitType": "new", "status": "approved", "submitted": "2024-02-20", "expiry": "2025-02-20"},
	{"id": "WP-2024-102", "applicant": "Maria Rossi", "nationality": "Italian", "company": "Eni Ghana Exploration", "position": "Reservoir Engineer", "permitType": "renewal", "status": "under_review", "submitted": "2024-03-01", "expiry": "2024-04-30"},
	{"id": "WP-2024-103", "applicant": "Ahmed Hassan", "nationality": "Egyptian", "company": "Kosmos Energy Ghana", "position": "Subsea Engineer", "permitType": "new", "status": "pending", "submitted": "2024-03-08", "expiry": ""},
	{"id": "WP-2024-104", "applicant": "Erik Hansen", "nationality": "Norwegian", "company": "Aker Energy Ghana", "position": "HSE Manager", "permitType": "renewal", "status": "rejected", "submitted": "2024-01-25", "expiry": "2024-03-31"},
	{"id": "WP-2024-105", "applicant": "Chen Wei", "nationality": "Chinese", "company": "Springfield E&P", "position": "Geophysicist", "permitType": "transfer", "status": "approved", "submitted": "2024-02-11", "expiry": "2025-02-11"},
}

// WorkPermits is the immigration officer's expatriate permit queue.
func WorkPermits() *Dataset {
	return &Dataset{
		Name:       WorkPermitsName,
		Title:      "Work Permit Applications",
		Role:       shared.RoleImmigrationOfficer,
		Collection: records.MustCollection(permitSchema, permitSeed),
		Projection: records.MustProjection(permitSchema,
			[]string{"id", "applicant", "company", "permitType", "status", "submitted"},
			records.Group{Title: "Applicant", Fields: []string{"applicant", "nationality", "position"}},
			records.Group{Title: "Permit", Fields: []string{"id", "company", "permitType", "status", "submitted", "expiry"}},
		),
		Filters:     []string{"status", "permitType"},
		DateField:   "submitted",
		DefaultSort: &records.SortSpec{Field: "submitted", Direction: records.Desc},
		ChartGroup:  "status",
	}
}
