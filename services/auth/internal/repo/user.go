package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", u.Username, u.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserAlreadyExist
		}
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExist
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UpdateProfile(ctx context.Context, id uint, name, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var taken int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, id).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUserAlreadyExist
		}

		user.Name = name
		user.Email = email
		if err := tx.Model(&user).Select("name", "email").Updates(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExist
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword stores the new hash and revokes every live refresh token of
// the user in one transaction.
func (r *GormRepo) ChangePassword(ctx context.Context, id uint, hash string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked = ?", id, false).
			Update("revoked", true).Error
	})
}

func (r *GormRepo) UpdateAvatar(ctx context.Context, id uint, image string) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(user).Update("image", image).Error; err != nil {
		return nil, err
	}
	user.Image = image
	return user, nil
}

// EnsureAdmin creates the user as admin, or promotes an existing user with the same username.
func (r *GormRepo) EnsureAdmin(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Update("role", models.RoleAdmin).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			u.Role = models.RoleAdmin
			return tx.Create(u).Error
		default:
			return err
		}
	})
}
