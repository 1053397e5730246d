package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// ApplicationsName is the company administrator's submissions list.
const ApplicationsName = "applications"

var applicationSchema = records.MustSchema("id",
	text("id", "Application ID"),
	text("title", "Title"),
	category("type", "Type"),
	category("status", "Status"),
	text("assignedTo", "Assigned To"),
	number("fee", "Fee (USD)"),
	date("submitted", "Submitted"),
)

var applicationSeed = []records.Record{
	{"id": "APP-2024-027", "title": "Petroleum agreement, Block WCTP-2", "type": "licence", "status": "approved", "assignedTo": "Licensing Directorate", "fee": 25000, "submitted": "2024-01-18"},
	{"id": "APP-2024-028", "title": "Work permits for drilling crew", "type": "permit", "status": "under_review", "assignedTo": "Immigration Desk", "fee": 4500, "submitted": "2024-02-06"},
	{"id": "APP-2024-029", "title": "Local content plan 2024", "type": "local_content", "status": "submitted", "assignedTo": "Local Content Unit", "fee": 0, "submitted": "2024-02-22"},
	{"id": "APP-2024-030", "title": "Seismic data acquisition licence", "type": "licence", "status": "rejected", "assignedTo": "Licensing Directorate", "fee": 32000, "submitted": "2024-03-02"},
	{"id": "APP-2024-031", "title": "Permit renewal, offshore block", "type": "permit", "status": "submitted", "assignedTo": "Immigration Desk", "fee": 12500, "submitted": "2024-03-14"},
}

// Applications lists a company's submissions to the commission.
func Applications() *Dataset {
	return &Dataset{
		Name:       ApplicationsName,
		Title:      "My Applications",
		Role:       shared.RoleCompanyAdmin,
		Collection: records.MustCollection(applicationSchema, applicationSeed),
		Projection: records.MustProjection(applicationSchema,
			[]string{"id", "title", "type", "status", "submitted"},
			records.Group{Title: "Application", Fields: []string{"id", "title", "type", "fee", "submitted"}},
			records.Group{Title: "Processing", Fields: []string{"status", "assignedTo"}},
		),
		Filters:     []string{"type", "status"},
		DateField:   "submitted",
		DefaultSort: &records.SortSpec{Field: "submitted", Direction: records.Desc},
		ChartGroup:  "status",
		ChartSum:    "fee",
	}
}
