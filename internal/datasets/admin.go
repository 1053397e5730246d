package datasets

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// AuditLogsName is the commission administrator's activity log.
const AuditLogsName = "audit-logs"

var auditSchema = records.MustSchema("id",
	text("id", "Log ID"),
	text("user", "User"),
	category("role", "Role"),
	category("action", "Action"),
	text("entity", "Entity"),
	plain("ip", "IP Address"),
	category("severity", "Severity"),
	date("timestamp", "Timestamp"),
)

var auditSeed = []records.Record{
	{"id": "LOG-10021", "user": "ama.mensah@petrocom.gov.gh", "role": "FINANCE_OFFICER", "action": "payment.retry", "entity": "TXN-2024-004", "ip": "10.20.1.14", "severity": "info", "timestamp": "2024-03-15T09:12:44Z"},
	{"id": "LOG-10022", "user": "kofi.addo@petrocom.gov.gh", "role": "IMMIGRATION_OFFICER", "action": "permit.approve", "entity": "WP-2024-101", "ip": "10.20.3.7", "severity": "info", "timestamp": "2024-03-15T10:02:10Z"},
	{"id": "LOG-10023", "user": "unknown", "role": "", "action": "auth.login_failed", "entity": "admin@petrocom.gov.gh", "ip": "197.251.4.90", "severity": "warning", "timestamp": "2024-03-15T11:47:31Z"},
	{"id": "LOG-10024", "user": "admin@petrocom.gov.gh", "role": "COMMISSION_ADMIN", "action": "user.role_change", "entity": "efua.boateng@petrocom.gov.gh", "ip": "10.20.0.2", "severity": "critical", "timestamp": "2024-03-14T16:20:00Z"},
	{"id": "LOG-10025", "user": "esi.quaye@tullowoil.com", "role": "COMPANY_ADMIN", "action": "application.submit", "entity": "APP-2024-031", "ip": "41.66.210.5", "severity": "info", "timestamp": "2024-03-14T08:55:19Z"},
}

// AuditLogs is the system activity log shown to commission administrators.
func AuditLogs() *Dataset {
	return &Dataset{
		Name:       AuditLogsName,
		Title:      "Audit Logs",
		Role:       shared.RoleCommissionAdmin,
		Collection: records.MustCollection(auditSchema, auditSeed),
		Projection: records.MustProjection(auditSchema,
			[]string{"id", "user", "action", "severity", "timestamp"},
			records.Group{Title: "Event", Fields: []string{"id", "action", "entity", "severity", "timestamp"}},
			records.Group{Title: "Actor", Fields: []string{"user", "role", "ip"}},
		),
		Filters:     []string{"action", "severity", "role"},
		DateField:   "timestamp",
		DefaultSort: &records.SortSpec{Field: "timestamp", Direction: records.Desc},
		ChartGroup:  "severity",
	}
}
