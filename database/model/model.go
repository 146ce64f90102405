// Package model defines the persisted entities of the user panel.
package model

// User is an account record. Login is stored normalized (lower-case, trimmed).
type User struct {
	Id       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Login    string `json:"login" gorm:"size:32;not null;uniqueIndex"`
	Password string `json:"password" gorm:"size:64;not null"`
	Name     string `json:"name" gorm:"size:32;not null"`
}

func (User) TableName() string {
	return "db_user"
}

// Role is a named permission grouping. Roles are seeded, never created over HTTP.
type Role struct {
	Id   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:32;not null;uniqueIndex"`
}

func (Role) TableName() string {
	return "role"
}

// UserRole is one row of the user<->role association. Both directions of the
// relationship are answered from this table; entities hold no back-references.
type UserRole struct {
	UserId int64 `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	RoleId int64 `json:"roleId" gorm:"primaryKey;autoIncrement:false;index"`

	User *User `json:"-" gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Role *Role `json:"-" gorm:"foreignKey:RoleId;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (UserRole) TableName() string {
	return "db_user_role"
}

// NewUserRoles builds the association rows linking userId to every distinct role id.
func NewUserRoles(userId int64, roleIds []int64) []UserRole {
	rows := make([]UserRole, 0, len(roleIds))
	seen := make(map[int64]struct{}, len(roleIds))
	for _, roleId := range roleIds {
		if _, ok := seen[roleId]; ok {
			continue
		}
		seen[roleId] = struct{}{}
		rows = append(rows, UserRole{UserId: userId, RoleId: roleId})
	}
	return rows
}
