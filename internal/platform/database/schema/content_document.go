package schema

// ContentDocumentTable represents the 'content.document' table
type ContentDocumentTable struct {
	Table     string
	ID        string
	Title     string
	Language  string
	Category  string
	FileURL   string
	Active    string
	SortOrder string
	CreatedAt string
	UpdatedAt string
}

// ContentDocument is the schema definition for content.document
var ContentDocument = ContentDocumentTable{
	Table:     "content.document",
	ID:        "id",
	Title:     "title",
	Language:  "language",
	Category:  "category",
	FileURL:   "fileurl",
	Active:    "active",
	SortOrder: "sortorder",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t ContentDocumentTable) Columns() []string {
	return []string{t.ID, t.Title, t.Language, t.Category, t.FileURL, t.Active, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
