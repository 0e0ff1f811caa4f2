package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
	"gorm.io/gorm"
)

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Insert(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// translate maps gorm errors onto the repository sentinels. The gorm handle
// must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.ErrConflict
	default:
		return err
	}
}
