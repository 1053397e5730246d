package datasets

import (
	"github.com/petrocom/uts/internal/payments"
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

// TransactionsName is the finance officer's payment history.
const TransactionsName = "transactions"

var transactionSchema = records.MustSchema("id",
	text("id", "Transaction ID"),
	text("company", "Company"),
	text("description", "Description"),
	number("amount", "Amount"),
	category("currency", "Currency"),
	category("method", "Payment Method"),
	category("status", "Status"),
	plain("reference", "Reference"),
	date("date", "Date"),
)

var transactionSeed = []records.Record{
	{"id": "TXN-2024-001", "company": "Kosmos Energy Ghana", "description": "Petroleum agreement application fee", "amount": 25000, "currency": "USD", "method": "bank_transfer", "status": "completed", "reference": "PC/FIN/0412", "date": "2024-03-15T10:30:00Z"},
	{"id": "TXN-2024-002", "company": "Tullow Oil plc", "description": "Annual surface rental, Jubilee field", "amount": 150000, "currency": "USD", "method": "bank_transfer", "status": "completed", "reference": "PC/FIN/0413", "date": "2024-03-14T14:20:00Z"},
	{"id": "TXN-2024-003", "company": "Eni Ghana Exploration", "description": "Work permit processing fees", "amount": 4500, "currency": "GHS", "method": "mobile_money", "status": "pending", "reference": "PC/FIN/0414", "date": "2024-03-13T09:15:00Z"},
	{"id": "TXN-2024-004", "company": "Springfield E&P", "description": "Local content training levy", "amount": 75000, "currency": "USD", "method": "card", "status": "failed", "reference": "PC/FIN/0415", "date": "2024-03-12T16:45:00Z"},
	{"id": "TXN-2024-005", "company": "Aker Energy Ghana", "description": "Data acquisition licence", "amount": 32000, "currency": "USD", "method": "bank_transfer", "status": "completed", "reference": "PC/FIN/0416", "date": "2024-03-11T11:00:00Z"},
	{"id": "TXN-2024-006", "company": "GNPC Explorco", "description": "Permit renewal, offshore block", "amount": 12500, "currency": "GHS", "method": "card", "status": "processing", "reference": "PC/FIN/0417", "date": "2024-03-10T08:05:00Z"},
}

// Transactions is the payment history page with the status workflow enabled.
func Transactions() *Dataset {
	wf := payments.NewWorkflow("status")
	return &Dataset{
		Name:       TransactionsName,
		Title:      "Payment History",
		Role:       shared.RoleFinanceOfficer,
		Collection: records.MustCollection(transactionSchema, transactionSeed),
		Projection: records.MustProjection(transactionSchema,
			[]string{"id", "company", "amount", "method", "status", "date"},
			records.Group{Title: "Payment", Fields: []string{"id", "reference", "amount", "currency", "method", "status"}},
			records.Group{Title: "Payer", Fields: []string{"company", "description"}},
		),
		Filters:     []string{"status", "method"},
		DateField:   "date",
		DefaultSort: &records.SortSpec{Field: "date", Direction: records.Desc},
		Workflow:    &wf,
		ChartGroup:  "status",
		ChartSum:    "amount",
	}
}
