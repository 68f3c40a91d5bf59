package schema

// ContentBrochureTable represents the 'content.brochure' table.
//
// One row per language; siblings share TranslationGroup.
type ContentBrochureTable struct {
	Table               string
	ID                  string
	Language            string
	TranslationGroup    string
	Name                string
	Description         string
	Category            string
	PDFURL              string
	ImageURL            string
	Status              string
	Active              string
	SortOrder           string
	TranslationMetadata string
	CreatedAt           string
	UpdatedAt           string
}

// ContentBrochure is the schema definition for content.brochure
var ContentBrochure = ContentBrochureTable{
	Table:               "content.brochure",
	ID:                  "id",
	Language:            "language",
	TranslationGroup:    "translationgroup",
	Name:                "name",
	Description:         "description",
	Category:            "category",
	PDFURL:              "pdfurl",
	ImageURL:            "imageurl",
	Status:              "status",
	Active:              "active",
	SortOrder:           "sortorder",
	TranslationMetadata: "translationmetadata",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names in scan order.
func (t ContentBrochureTable) Columns() []string {
	return []string{
		t.ID, t.Language, t.TranslationGroup, t.Name, t.Description, t.Category,
		t.PDFURL, t.ImageURL, t.Status, t.Active, t.SortOrder, t.TranslationMetadata,
		t.CreatedAt, t.UpdatedAt,
	}
}
