// Package service implements the user panel's business operations on top of
// the repositories. Every operation runs inside one store transaction.
package service

import (
	"context"
	"strings"

	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/database/model"
	"github.com/drsdgdbye/user-panel/database/repository"
	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/web/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeLogin lower-cases the login and strips surrounding whitespace.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func (s *UserService) inTx(ctx context.Context, fn func(users repository.UserRepository, roles repository.RoleRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.NewUserRepository(tx), repository.NewRoleRepository(tx))
	})
}

// resolveRoles checks that every id names a stored role.
func resolveRoles(ctx context.Context, roles repository.RoleRepository, ids []int64) ([]int64, error) {
	resolved := make([]int64, 0, len(ids))
	for _, id := range ids {
		role, err := roles.GetById(ctx, id)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, role.Id)
	}
	return resolved, nil
}

// CreateUser stores a new user built from dto and returns its id.
func (s *UserService) CreateUser(ctx context.Context, dto entity.UserDto) (int64, error) {
	logger.Debugf("create user from dto: %v", dto)

	newUser := &model.User{
		Login:    NormalizeLogin(dto.Login),
		Name:     dto.Name,
		Password: dto.Password,
	}
	err := s.inTx(ctx, func(users repository.UserRepository, roles repository.RoleRepository) error {
		roleIds, err := resolveRoles(ctx, roles, dto.Roles)
		if err != nil {
			return err
		}
		if err := users.Save(ctx, newUser); err != nil {
			if database.IsDuplicateKey(err) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return users.ReplaceRoles(ctx, newUser.Id, roleIds)
	})
	if err != nil {
		return 0, err
	}
	return newUser.Id, nil
}

// UpdateUser overwrites name, password and the role set of the user with
// dto's id. Login and id are never changed.
func (s *UserService) UpdateUser(ctx context.Context, dto entity.UserDto) error {
	logger.Debugf("update user from dto: %v", dto)

	if dto.Id == nil {
		return ErrUserNotFound
	}
	return s.inTx(ctx, func(users repository.UserRepository, roles repository.RoleRepository) error {
		u, err := users.FindById(ctx, *dto.Id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}
		roleIds, err := resolveRoles(ctx, roles, dto.Roles)
		if err != nil {
			return err
		}
		u.Name = dto.Name
		u.Password = dto.Password
		if err := users.Save(ctx, u); err != nil {
			return err
		}
		return users.ReplaceRoles(ctx, u.Id, roleIds)
	})
}

// GetUsersList returns every user without password and roles.
func (s *UserService) GetUsersList(ctx context.Context) ([]entity.UserWithoutRolesDto, error) {
	logger.Debug("get list of users")

	var list []entity.UserWithoutRolesDto
	err := s.inTx(ctx, func(users repository.UserRepository, _ repository.RoleRepository) error {
		all, err := users.FindAll(ctx)
		if err != nil {
			return err
		}
		list = make([]entity.UserWithoutRolesDto, 0, len(all))
		for i := range all {
			list = append(list, entity.NewUserWithoutRolesDto(&all[i]))
		}
		return nil
	})
	return list, err
}

// GetUser returns the full representation of one user, role ids included.
func (s *UserService) GetUser(ctx context.Context, id int64) (entity.UserDto, error) {
	logger.Debugf("get one user by id: %d", id)

	var dto entity.UserDto
	err := s.inTx(ctx, func(users repository.UserRepository, _ repository.RoleRepository) error {
		u, err := users.FindById(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}
		roleIds, err := users.RoleIds(ctx, u.Id)
		if err != nil {
			return err
		}
		dto = entity.NewUserDto(u, roleIds)
		return nil
	})
	return dto, err
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	logger.Debugf("delete user by id: %d", id)

	return s.inTx(ctx, func(users repository.UserRepository, _ repository.RoleRepository) error {
		u, err := users.FindById(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}
		return users.Delete(ctx, u)
	})
}

// IsUserExists reports whether some user already holds dto's normalized login.
func (s *UserService) IsUserExists(ctx context.Context, dto entity.UserDto) (bool, error) {
	logger.Debugf("check if user exists by dto: %v", dto)

	u, err := repository.NewUserRepository(s.db).FindOneByLogin(ctx, NormalizeLogin(dto.Login))
	if err != nil {
		return false, errors.WithMessage(err, "check user exists")
	}
	return u != nil, nil
}

// CountUsers returns the number of stored users.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return repository.NewUserRepository(s.db).Count(ctx)
}
