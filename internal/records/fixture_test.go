package records

import "time"

var testNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func paymentSchema() *Schema {
	return MustSchema("id",
		Field{Name: "id", Label: "Transaction ID", Kind: KindString, Searchable: true},
		Field{Name: "company", Label: "Company", Kind: KindString, Searchable: true},
		Field{Name: "amount", Label: "Amount", Kind: KindNumber},
		Field{Name: "method", Label: "Method", Kind: KindCategory},
		Field{Name: "status", Label: "Status", Kind: KindCategory},
		Field{Name: "date", Label: "Date", Kind: KindTime},
	)
}

func paymentRecords() []Record {
	return []Record{
		{"id": "P-1", "company": "Kosmos Energy", "amount": 15000, "method": "bank_transfer", "status": "completed", "date": "2024-03-28"},
		{"id": "P-2", "company": "Tullow Oil", "amount": 2500.5, "method": "card", "status": "completed", "date": "2024-03-20"},
		{"id": "P-3", "company": "Eni Ghana", "amount": 7800, "method": "bank_transfer", "status": "pending", "date": "2024-02-10"},
		{"id": "P-4", "company": "Springfield E&P", "amount": 2500.5, "method": "mobile_money", "status": "failed", "date": "2023-12-01"},
		{"id": "P-5", "company": "Aker Energy", "amount": 9100, "method": "card", "status": "completed", "date": "not a date"},
		{"id": "P-6", "company": "GNPC, Explorco", "amount": 300, "method": "bank_transfer", "status": "processing", "date": "2024-03-30T09:15:00Z"},
	}
}

func paymentCollection() *Collection {
	return MustCollection(paymentSchema(), paymentRecords())
}

func ids(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Text("id"))
	}
	return out
}
