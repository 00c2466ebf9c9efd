package store

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// ErrDuplicateUser is returned when the username or email is taken
var ErrDuplicateUser = errors.New("username or email already exists")

// UserStore persists users together with their wallets
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a user store over db
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates user and its wallet funded with initial in one transaction
func (s *UserStore) Register(ctx context.Context, user *domain.User, initial float64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&domain.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&taken).Error; err != nil {
			return wrap(err, "check user")
		}
		if taken > 0 {
			return ErrDuplicateUser
		}
		if err := tx.Omit("Wallet").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUser // Lost a registration race
			}
			return wrap(err, "create user")
		}
		wallet, err := NewWalletStore(tx).Create(ctx, user.ID, initial)
		if err != nil {
			return err // Rolls back the user row
		}
		user.Wallet = *wallet
		return nil
	})
}

// FindByUsername returns the user with username
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap(err, "find user")
	}
	return &user, nil
}

// Get returns the user with id
func (s *UserStore) Get(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap(err, "get user")
	}
	return &user, nil
}

// List returns one page of users with their wallets and the total user count
func (s *UserStore) List(ctx context.Context, page Page) ([]domain.User, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count users")
	}
	users := []domain.User{}
	if err := db.Preload("Wallet").Order("id asc").Offset(page.Offset()).Limit(page.Size).Find(&users).Error; err != nil {
		return nil, 0, wrap(err, "list users")
	}
	return users, total, nil
}
