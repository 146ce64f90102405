package service

import (
	"github.com/drsdgdbye/user-panel/database/repository"

	"github.com/pkg/errors"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleNotFound      = repository.ErrRoleNotFound
	ErrRoleAlreadyExists = errors.New("role already exists")
	ErrInvalidRoleName   = errors.New("role name must be 1 to 32 characters")
)
