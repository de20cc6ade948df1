package store

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"

	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
)

// Argon2id parameters.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

// ErrInvalidCredentials is returned by Authenticate for any mismatch.
var ErrInvalidCredentials = errors.New("invalid email or password")

func hashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// setPassword replaces the stored hash when a plain password was supplied and
// clears the plain value.
func setPassword(u *model.User) error {
	if u.Password == "" {
		return nil
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	u.PasswordSalt = salt
	u.PasswordHash = hashPassword([]byte(u.Password), salt)
	u.Password = ""
	return nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, translate(err))
	}
	return &u, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := setPassword(u); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, u.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", translate(err))
		}
		return nil
	})
}

func (s *gormStore) SaveUser(ctx context.Context, u *model.User) error {
	if err := setPassword(u); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, u.Email, u.ID); err != nil {
			return err
		}
		if err := tx.Save(u).Error; err != nil {
			return fmt.Errorf("failed to save user %d: %w", u.ID, translate(err))
		}
		return nil
	})
}

func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (s *gormStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	got := hashPassword([]byte(password), u.PasswordSalt)
	if len(u.PasswordHash) == 0 || subtle.ConstantTimeCompare(got, u.PasswordHash) != 1 {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// ensureEmailFree rejects an email already used by a user other than selfID.
func ensureEmailFree(tx *gorm.DB, email string, selfID int64) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("email = ? AND id <> ?", email, selfID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("email %q: %w", email, errs.ErrAlreadyExists)
	}
	return nil
}
