package datasets

import "github.com/petrocom/uts/internal/records"

// DocumentsName is the public regulatory library.
const DocumentsName = "documents"

var documentSchema = records.MustSchema("id",
	text("id", "Document ID"),
	text("title", "Title"),
	text("summary", "Summary"),
	category("category", "Category"),
	plain("format", "Format"),
	number("sizeKB", "Size (KB)"),
	date("published", "Published"),
)

var documentSeed = []records.Record{
	{"id": "DOC-001", "title": "Petroleum (Exploration and Production) Act, 2016 (Act 919)", "summary": "Primary legislation governing upstream petroleum activities", "category": "legislation", "format": "PDF", "sizeKB": 2450, "published": "2016-08-05"},
	{"id": "DOC-002", "title": "Local Content and Local Participation Regulations, 2013 (L.I. 2204)", "summary": "Minimum local content levels for goods, services and employment", "category": "regulation", "format": "PDF", "sizeKB": 1320, "published": "2013-11-20"},
	{"id": "DOC-003", "title": "Guidelines for Work Permit Applications", "summary": "Documentation and quota requirements for expatriate permits", "category": "guideline", "format": "PDF", "sizeKB": 640, "published": "2022-04-12"},
	{"id": "DOC-004", "title": "Fees and Charges Schedule 2024", "summary": "Application, rental and renewal fees payable to the commission", "category": "guideline", "format": "XLSX", "sizeKB": 96, "published": "2024-01-08"},
	{"id": "DOC-005", "title": "Data Management Regulations, 2017 (L.I. 2257)", "summary": "Submission and custody of petroleum data", "category": "regulation", "format": "PDF", "sizeKB": 880, "published": "2017-06-30"},
}

// Documents is the public regulatory document library.
func Documents() *Dataset {
	return &Dataset{
		Name:       DocumentsName,
		Title:      "Regulatory Documents",
		Collection: records.MustCollection(documentSchema, documentSeed),
		Projection: records.MustProjection(documentSchema,
			[]string{"id", "title", "category", "published"},
			records.Group{Title: "Document", Fields: []string{"id", "title", "summary", "category"}},
			records.Group{Title: "File", Fields: []string{"format", "sizeKB", "published"}},
		),
		Filters:     []string{"category"},
		DateField:   "published",
		DefaultSort: &records.SortSpec{Field: "published", Direction: records.Desc},
		ChartGroup:  "category",
	}
}
