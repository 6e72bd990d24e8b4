// Package ledger implements the VillageCoins balance owned by one session.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/villagestay/villagestay/pkg/errors"
)

// Transaction type constants
const (
	TxTypeWelcomeBonus  = "welcome_bonus"
	TxTypeRedemption    = "redemption"
	TxTypeListingReward = "listing_reward"
	TxTypeReset         = "reset"
)

// Transaction is one balance change. Amount is negative for debits.
type Transaction struct {
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Balance     int64     `json:"balance"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Ledger holds a non-negative coin balance. The zero value is not usable; call New.
type Ledger struct {
	mu      sync.Mutex
	balance int64
	history []Transaction
	now     func() time.Time
}

func New() *Ledger {
	return &Ledger{now: func() time.Time { return time.Now().UTC() }}
}

// Grant sets the balance to amount, replacing whatever was there (login grant).
func (l *Ledger) Grant(amount int64) {
	if amount < 0 {
		amount = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	delta := amount - l.balance
	l.balance = amount
	l.record(delta, TxTypeWelcomeBonus, "login grant")
}

// Reset zeroes the balance (logout).
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance == 0 {
		return
	}
	delta := -l.balance
	l.balance = 0
	l.record(delta, TxTypeReset, "logout")
}

// Redeem debits amount and returns the new balance. It fails with
// INVALID_AMOUNT for non-positive amounts and INSUFFICIENT_BALANCE when
// amount exceeds the balance; in both cases the balance is unchanged.
func (l *Ledger) Redeem(amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "please enter a valid amount to redeem")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.balance {
		return l.balance, errors.New(errors.ErrCodeInsufficientBalance,
			fmt.Sprintf("insufficient coins: have %d, need %d", l.balance, amount))
	}

	l.debit(amount)
	l.record(-amount, TxTypeRedemption, description)
	return l.balance, nil
}

// Credit adds earned coins and returns the new balance.
func (l *Ledger) Credit(amount int64, txType, description string) (int64, error) {
	if amount <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "credit amount must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance += amount
	l.record(amount, txType, description)
	return l.balance, nil
}

func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// History returns transactions newest first.
func (l *Ledger) History() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Transaction, len(l.history))
	for i, tx := range l.history {
		out[len(out)-1-i] = tx
	}
	return out
}

// debit clamps at zero. Redeem has already rejected overdrafts.
func (l *Ledger) debit(amount int64) {
	l.balance -= amount
	if l.balance < 0 {
		l.balance = 0
	}
}

func (l *Ledger) record(amount int64, txType, description string) {
	l.history = append(l.history, Transaction{
		Amount:      amount,
		Type:        txType,
		Description: description,
		Balance:     l.balance,
		CreatedAt:   l.now(),
	})
}
