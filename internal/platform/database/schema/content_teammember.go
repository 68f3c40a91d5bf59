package schema

// ContentTeamMemberTable represents the 'content.teammember' table
type ContentTeamMemberTable struct {
	Table        string
	ID           string
	Name         string
	Role         string
	Bio          string
	PhotoURL     string
	Email        string
	Translations string
	Active       string
	SortOrder    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentTeamMember is the schema definition for content.teammember
var ContentTeamMember = ContentTeamMemberTable{
	Table:        "content.teammember",
	ID:           "id",
	Name:         "name",
	Role:         "role",
	Bio:          "bio",
	PhotoURL:     "photourl",
	Email:        "email",
	Translations: "translations",
	Active:       "active",
	SortOrder:    "sortorder",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t ContentTeamMemberTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Role, t.Bio, t.PhotoURL, t.Email, t.Translations,
		t.Active, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
