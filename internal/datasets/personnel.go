package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// PersonnelName is the personnel dashboard's staff register.
const PersonnelName = "personnel"

var personnelSchema = records.MustSchema("id",
	text("id", "Staff ID"),
	text("name", "Name"),
	text("company", "Company"),
	text("position", "Position"),
	category("department", "Department"),
	category("nationality", "Nationality"),
	category("status", "Status"),
	date("joined", "Joined"),
)

var personnelSeed = []records.Record{
	{"id": "EMP-0001", "name": "Kwame Asante", "company": "Tullow Oil plc", "position": "Production Engineer", "department": "operations", "nationality": "ghanaian", "status": "active", "joined": "2019-04-01"},
	{"id": "EMP-0002", "name": "Abena Owusu", "company": "Eni Ghana Exploration", "position": "Geologist", "department": "exploration", "nationality": "ghanaian", "status": "active", "joined": "2021-08-16"},
	{"id": "EMP-0003", "name": "James Wilson", "company": "Tullow Oil plc", "position": "Drilling Supervisor", "department": "drilling", "nationality": "expatriate", "status": "active", "joined": "2022-02-01"},
	{"id": "EMP-0004", "name": "Yaw Boateng", "company": "Kosmos Energy Ghana", "position": "HSE Officer", "department": "hse", "nationality": "ghanaian", "status": "on_leave", "joined": "2020-11-09"},
	{"id": "EMP-0005", "name": "Efua Mensah", "company": "GNPC Explorco", "position": "Contracts Analyst", "department": "finance", "nationality": "ghanaian", "status": "active", "joined": "2023-06-12"},
	{"id": "EMP-0006", "name": "Maria Rossi", "company": "Eni Ghana Exploration", "position": "Reservoir Engineer", "department": "exploration", "nationality": "expatriate", "status": "terminated", "joined": "2018-01-22"},
}

// Personnel is the register of staff employed by operators and contractors.
func Personnel() *Dataset {
	return &Dataset{
		Name:       PersonnelName,
		Title:      "Personnel Register",
		Role:       shared.RolePersonnel,
		Collection: records.MustCollection(personnelSchema, personnelSeed),
		Projection: records.MustProjection(personnelSchema,
			[]string{"id", "name", "company", "department", "status"},
			records.Group{Title: "Employee", Fields: []string{"id", "name", "nationality"}},
			records.Group{Title: "Employment", Fields: []string{"company", "position", "department", "status", "joined"}},
		),
		Filters:     []string{"department", "nationality", "status"},
		DateField:   "joined",
		DefaultSort: &records.SortSpec{Field: "name", Direction: records.Asc},
		ChartGroup:  "nationality",
	}
}
