package dao

import (
	"context"
	"errors"
	"fmt"

	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/utils/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", errs.ErrStorage, err)
	}
	return &user, nil
}

// GetUserByEmail returns nil, nil when no user has that email.
func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user by email: %v", errs.ErrStorage, err)
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, email, passwordHash string, name *string) (*models.User, error) {
	user := models.User{
		Email:    email,
		Password: passwordHash,
		Name:     name,
	}
	err := dao.DB.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: email %s", errs.ErrConflict, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %v", errs.ErrStorage, err)
	}
	return &user, nil
}
