package schema

// ContentLeadershipTable represents the 'content.leadership' singleton table
type ContentLeadershipTable struct {
	Table        string
	ID           string
	Message      string
	AuthorName   string
	AuthorTitle  string
	PhotoURL     string
	Translations string
	UpdatedAt    string
}

// ContentLeadership is the schema definition for content.leadership
var ContentLeadership = ContentLeadershipTable{
	Table:        "content.leadership",
	ID:           "id",
	Message:      "message",
	AuthorName:   "authorname",
	AuthorTitle:  "authortitle",
	PhotoURL:     "photourl",
	Translations: "translations",
	UpdatedAt:    "updatedat",
}

func (t ContentLeadershipTable) Columns() []string {
	return []string{t.ID, t.Message, t.AuthorName, t.AuthorTitle, t.PhotoURL, t.Translations, t.UpdatedAt}
}
