package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "recipebox/internal/log"
	"recipebox/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registration struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserStore holds accounts and their bcrypt password hashes.
type UserStore struct {
	db   *gorm.DB
	cost int
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db, cost: bcrypt.DefaultCost}
}

// Register creates an account. Usernames compare case-insensitively and are
// stored lower-cased. Guests cannot be registered.
func (s *UserStore) Register(ctx context.Context, username, password string, role Role) (*models.User, error) {
	input := registration{Username: strings.ToLower(strings.TrimSpace(username)), Password: password}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if role != RoleRegistered && role != RoleAdmin {
		return nil, newValidationError("role must be registered or admin")
	}

	tx := s.db.WithContext(ctx)
	var taken int64
	if err := tx.Model(&models.User{}).Where("username = ?", input.Username).Count(&taken).Error; err != nil {
		return nil, persistence("check username", err)
	}
	if taken > 0 {
		return nil, newValidationError("username is already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         role.String(),
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("username is already taken")
		}
		return nil, persistence("create user", err)
	}

	applog.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate returns the account for matching credentials, or
// ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistence("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	user := &models.User{}
	err := s.db.WithContext(ctx).First(user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, persistence("load user", err)
	}
	return user, nil
}

// UserRole parses the role stored on user. Unknown values fall back to guest.
func UserRole(user *models.User) Role {
	if user == nil {
		return RoleGuest
	}
	role, err := ParseRole(user.Role)
	if err != nil {
		return RoleGuest
	}
	return role
}
