package entity

// Role of an authenticated user
type Role struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	RoleName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ids are seeded by the initial migration
const (
	RoleIDAdmin   = 1
	RoleIDPatient = 3
)

const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// RoleName maps a role id to its name
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDPatient:
		return RolePatient
	}
	return ""
}
