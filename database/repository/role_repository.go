package repository

import (
	"context"

	"github.com/drsdgdbye/user-panel/database/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrRoleNotFound is returned when a role id does not resolve to a stored role.
var ErrRoleNotFound = errors.New("role not found")

type GormRoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, errors.Wrap(err, "find all roles")
	}
	return roles, nil
}

func (r *GormRoleRepository) GetById(ctx context.Context, id int64) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrRoleNotFound, "role %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get role %d", id)
	}
	return &role, nil
}

func (r *GormRoleRepository) FindOneByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find role %q", name)
	}
	return &role, nil
}

func (r *GormRoleRepository) Save(ctx context.Context, role *model.Role) error {
	tx := r.db.WithContext(ctx)
	if role.Id == 0 {
		return errors.Wrap(tx.Create(role).Error, "insert role")
	}
	return errors.Wrapf(tx.Save(role).Error, "update role %d", role.Id)
}

// UserIds answers the inverse side of the association.
func (r *GormRoleRepository) UserIds(ctx context.Context, roleId int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("role_id = ?", roleId).
		Order("user_id ASC").
		Pluck("user_id", &ids).
		Error
	if err != nil {
		return nil, errors.Wrapf(err, "user ids of role %d", roleId)
	}
	return ids, nil
}
