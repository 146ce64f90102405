package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/database/model"
	"github.com/drsdgdbye/user-panel/database/repository"
	"github.com/drsdgdbye/user-panel/logger"

	"gorm.io/gorm"
)

// RoleService manages the role catalogue. Roles are maintained from the
// command line only.
type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return repository.NewRoleRepository(s.db).FindAll(ctx)
}

// AddRole stores a role with the given name.
func (s *RoleService) AddRole(ctx context.Context, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 32 {
		return nil, ErrInvalidRoleName
	}
	role := &model.Role{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := repository.NewRoleRepository(tx)
		existing, err := roles.FindOneByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRoleAlreadyExists
		}
		if err := roles.Save(ctx, role); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrRoleAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("role %s added with id %d", role.Name, role.Id)
	return role, nil
}
