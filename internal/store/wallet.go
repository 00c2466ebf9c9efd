package store

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/clause"   // Row locking clause
)

// WalletStore holds one balance per user
type WalletStore struct {
	db *gorm.DB
}

// NewWalletStore returns a wallet store over db
func NewWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// WithTx returns a copy of the store bound to tx
func (s *WalletStore) WithTx(tx *gorm.DB) *WalletStore {
	return &WalletStore{db: tx}
}

// Create opens the wallet of userID with an initial balance
func (s *WalletStore) Create(ctx context.Context, userID uint, initial float64) (*domain.Wallet, error) {
	wallet := &domain.Wallet{UserID: userID, Balance: initial}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, wrap(err, "create wallet")
	}
	return wallet, nil
}

// Get returns the wallet of userID
func (s *WalletStore) Get(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, wrap(err, "get wallet")
	}
	return &wallet, nil
}

// GetBalance returns the current balance of userID
func (s *WalletStore) GetBalance(ctx context.Context, userID uint) (float64, error) {
	wallet, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// LockBalance reads the balance holding a row lock until the surrounding
// transaction ends. SQLite has no row locks; its single writer serializes instead.
func (s *WalletStore) LockBalance(ctx context.Context, userID uint) (float64, error) {
	q := s.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"}) // SELECT ... FOR UPDATE
	}
	var wallet domain.Wallet
	if err := q.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return 0, wrap(err, "lock wallet")
	}
	return wallet.Balance, nil
}

// AdjustBalance adds delta to the balance in a single UPDATE and returns the new balance
func (s *WalletStore) AdjustBalance(ctx context.Context, userID uint, delta float64) (float64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, wrap(res.Error, "adjust balance")
	}
	if res.RowsAffected == 0 {
		return 0, errors.Wrapf(domain.ErrNotFound, "wallet of user %d", userID)
	}
	return s.GetBalance(ctx, userID)
}

// Debit subtracts amount only while the balance covers it. The guard lives in
// the WHERE clause so two racing debits can never both pass it.
func (s *WalletStore) Debit(ctx context.Context, userID uint, amount float64) (float64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, wrap(res.Error, "debit balance")
	}
	if res.RowsAffected == 0 {
		// Either the wallet is missing or the guard failed
		if _, err := s.Get(ctx, userID); err != nil {
			return 0, err
		}
		return 0, domain.ErrInsufficientFunds
	}
	return s.GetBalance(ctx, userID)
}
