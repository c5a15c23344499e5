package models

// UserRole is the closed set of roles in the organization.
type UserRole string

const (
	RoleAdmin            UserRole = "ADMIN"
	RoleManager          UserRole = "MANAGER"
	RoleBillingExecutive UserRole = "BILLING_EXECUTIVE"
	RoleEmployee         UserRole = "EMPLOYEE"
)

// Roles lists every valid role.
var Roles = []UserRole{RoleAdmin, RoleManager, RoleBillingExecutive, RoleEmployee}

// User represents a member of the organization. Usernames are unique among
// live accounts and case-sensitive; a deleted member's username may be
// reused. The avatar is stored as a data URI.
type User struct {
	Base
	Username string   `gorm:"index:idx_users_username,unique,where:deleted_at IS NULL;not null" json:"username"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"not null" json:"role"`
	Avatar   string   `json:"avatar,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
