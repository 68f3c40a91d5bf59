package schema

// UserAccountTable represents the 'users.account' table (back-office editors)
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	Role        string
	IsActive    string
	LastLoginAt string
	DisplayName string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "passwordhash",
	Role:        "role",
	IsActive:    "isactive",
	LastLoginAt: "lastloginat",
	DisplayName: "displayname",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsActive,
		t.LastLoginAt, t.DisplayName, t.CreatedAt, t.UpdatedAt,
	}
}
