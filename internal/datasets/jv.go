package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// JVProjectsName lists the joint-venture coordinator's active projects.
const JVProjectsName = "jv-projects"

var jvSchema = records.MustSchema("id",
	text("id", "Project ID"),
	text("name", "Project"),
	text("operator", "Operator"),
	text("partner", "Local Partner"),
	category("phase", "Phase"),
	number("completion", "Completion (%)"),
	number("budget", "Budget (USD)"),
	category("status", "Status"),
	date("startDate", "Start Date"),
)

var jvSeed = []records.Record{
	{"id": "JV-2024-001", "name": "Jubilee Phase 2 Subsea Expansion", "operator": "Tullow Oil", "partner": "Ghana Oilfield Services", "phase": "development", "completion": 65, "budget": 120000000, "status": "on_track", "startDate": "2023-06-01"},
	{"id": "JV-2024-002", "name": "Pecan Field Appraisal", "operator": "Aker Energy", "partner": "Brass Energy", "phase": "appraisal", "completion": 25, "budget": 48000000, "status": "delayed", "startDate": "2024-01-15"},
	{"id": "JV-2024-003", "name": "Sankofa Gas Compression", "operator": "Eni Ghana", "partner": "Rigworld Ghana", "phase": "production", "completion": 80, "budget": 95000000, "status": "on_track", "startDate": "2022-09-10"},
	{"id": "JV-2024-004", "name": "TEN FPSO Maintenance Programme", "operator": "Kosmos Energy", "partner": "Seaweld Engineering", "phase": "production", "completion": 45, "budget": 30000000, "status": "at_risk", "startDate": "2023-11-20"},
	{"id": "JV-2024-005", "name": "Deepwater Tano Seismic Survey", "operator": "Springfield E&P", "partner": "GeoSurvey Ghana", "phase": "exploration", "completion": 55, "budget": 22000000, "status": "on_track", "startDate": "2023-08-05"},
}

// JVProjects is the joint-venture coordinator's project tracker.
func JVProjects() *Dataset {
	return &Dataset{
		Name:       JVProjectsName,
		Title:      "Active Projects",
		Role:       shared.RoleJVCoordinator,
		Collection: records.MustCollection(jvSchema, jvSeed),
		Projection: records.MustProjection(jvSchema,
			[]string{"id", "name", "operator", "completion", "status"},
			records.Group{Title: "Project", Fields: []string{"id", "name", "phase", "status", "startDate"}},
			records.Group{Title: "Partners", Fields: []string{"operator", "partner"}},
			records.Group{Title: "Progress", Fields: []string{"completion", "budget"}},
		),
		Filters:     []string{"phase", "status"},
		DateField:   "startDate",
		DefaultSort: &records.SortSpec{Field: "completion", Direction: records.Desc},
		ChartGroup:  "phase",
		ChartSum:    "budget",
	}
}
