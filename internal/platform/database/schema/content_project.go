package schema

// ContentProjectTable represents the 'content.project' table
type ContentProjectTable struct {
	Table        string
	ID           string
	Slug         string
	Title        string
	Description  string
	Location     string
	Year         string
	ImageURL     string
	Gallery      string
	Translations string
	Status       string
	Active       string
	SortOrder    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentProject is the schema definition for content.project
var ContentProject = ContentProjectTable{
	Table:        "content.project",
	ID:           "id",
	Slug:         "slug",
	Title:        "title",
	Description:  "description",
	Location:     "location",
	Year:         "year",
	ImageURL:     "imageurl",
	Gallery:      "gallery",
	Translations: "translations",
	Status:       "status",
	Active:       "active",
	SortOrder:    "sortorder",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t ContentProjectTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.Description, t.Location, t.Year, t.ImageURL, t.Gallery,
		t.Translations, t.Status, t.Active, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
