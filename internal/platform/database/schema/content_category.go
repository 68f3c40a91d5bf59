package schema

// ContentCategoryTable represents the 'content.category' table
type ContentCategoryTable struct {
	Table        string
	ID           string
	Slug         string
	Name         string
	Translations string
	SortOrder    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentCategory is the schema definition for content.category
var ContentCategory = ContentCategoryTable{
	Table:        "content.category",
	ID:           "id",
	Slug:         "slug",
	Name:         "name",
	Translations: "translations",
	SortOrder:    "sortorder",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t ContentCategoryTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.Translations, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
