package repository

import (
	"context"

	"github.com/drsdgdbye/user-panel/database/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "find all users")
	}
	return users, nil
}

func (r *GormUserRepository) FindById(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindOneByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.findOne(ctx, "login = ?", login)
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user where %s", query)
	}
	return &u, nil
}

// Save inserts u when it has no id yet and updates every column otherwise.
func (r *GormUserRepository) Save(ctx context.Context, u *model.User) error {
	tx := r.db.WithContext(ctx)
	if u.Id == 0 {
		return errors.Wrap(tx.Create(u).Error, "insert user")
	}
	return errors.Wrapf(tx.Save(u).Error, "update user %d", u.Id)
}

// Delete removes the user's role links and then the user row.
func (r *GormUserRepository) Delete(ctx context.Context, u *model.User) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ?", u.Id).Delete(&model.UserRole{}).Error; err != nil {
		return errors.Wrapf(err, "unlink roles of user %d", u.Id)
	}
	return errors.Wrapf(tx.Delete(u).Error, "delete user %d", u.Id)
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, errors.Wrap(err, "count users")
}

func (r *GormUserRepository) RoleIds(ctx context.Context, userId int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userId).
		Order("role_id ASC").
		Pluck("role_id", &ids).
		Error
	if err != nil {
		return nil, errors.Wrapf(err, "role ids of user %d", userId)
	}
	return ids, nil
}

// ReplaceRoles makes roleIds the complete role set of the user.
func (r *GormUserRepository) ReplaceRoles(ctx context.Context, userId int64, roleIds []int64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ?", userId).Delete(&model.UserRole{}).Error; err != nil {
		return errors.Wrapf(err, "unlink roles of user %d", userId)
	}
	rows := model.NewUserRoles(userId, roleIds)
	if len(rows) == 0 {
		return nil
	}
	return errors.Wrapf(tx.Create(&rows).Error, "link roles to user %d", userId)
}
