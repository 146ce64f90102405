// Package repository provides lookup and write access to users and roles.
// Implementations are bound to a gorm handle, which may be a transaction.
package repository

import (
	"context"

	"github.com/drsdgdbye/user-panel/database/model"
)

// UserRepository defines operations on User entities and their role links.
// Finders return (nil, nil) when no row matches.
type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindById(ctx context.Context, id int64) (*model.User, error)
	FindOneByLogin(ctx context.Context, login string) (*model.User, error)
	Save(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, u *model.User) error
	Count(ctx context.Context) (int64, error)

	RoleIds(ctx context.Context, userId int64) ([]int64, error)
	ReplaceRoles(ctx context.Context, userId int64, roleIds []int64) error
}

// RoleRepository defines operations on Role entities.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	// GetById returns ErrRoleNotFound when no role has the id.
	GetById(ctx context.Context, id int64) (*model.Role, error)
	FindOneByName(ctx context.Context, name string) (*model.Role, error)
	Save(ctx context.Context, r *model.Role) error
	UserIds(ctx context.Context, roleId int64) ([]int64, error)
}

var (
	_ UserRepository = (*GormUserRepository)(nil)
	_ RoleRepository = (*GormRoleRepository)(nil)
)
