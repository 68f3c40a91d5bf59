package schema

// ContentPositionTable represents the 'content.position' table (open positions)
type ContentPositionTable struct {
	Table          string
	ID             string
	Title          string
	Description    string
	Requirements   string
	Location       string
	EmploymentType string
	Translations   string
	Active         string
	SortOrder      string
	CreatedAt      string
	UpdatedAt      string
}

// ContentPosition is the schema definition for content.position
var ContentPosition = ContentPositionTable{
	Table:          "content.position",
	ID:             "id",
	Title:          "title",
	Description:    "description",
	Requirements:   "requirements",
	Location:       "location",
	EmploymentType: "employmenttype",
	Translations:   "translations",
	Active:         "active",
	SortOrder:      "sortorder",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t ContentPositionTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Requirements, t.Location, t.EmploymentType,
		t.Translations, t.Active, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
