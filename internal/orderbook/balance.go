package orderbook

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/sirupsen/logrus"
)

// BalanceProvider debits user balances when orders are placed.
type BalanceProvider interface {
	Debit(ctx context.Context, user string, tokenID int, amount *big.Int) error
}

type balanceKey struct {
	user    string
	tokenID int
}

// MemoryBalances is an in-memory BalanceProvider. Debits saturate at zero.
type MemoryBalances struct {
	mu       sync.RWMutex
	balances map[balanceKey]*big.Int
}

func NewMemoryBalances() *MemoryBalances {
	return &MemoryBalances{
		balances: make(map[balanceKey]*big.Int),
	}
}

// Balance is one user's holding of one token.
type Balance struct {
	User    string
	TokenID int
	Amount  *big.Int
}

// NewMemoryBalancesFrom returns a MemoryBalances with every seed deposited.
func NewMemoryBalancesFrom(seeds []Balance) (*MemoryBalances, error) {
	m := NewMemoryBalances()
	for _, b := range seeds {
		if err := m.Deposit(b.User, b.TokenID, b.Amount); err != nil {
			return nil, fmt.Errorf("seed balance of %s for token %d: %w", b.User, b.TokenID, err)
		}
	}
	return m, nil
}

// Deposit credits amount to the user's balance of tokenID.
func (m *MemoryBalances) Deposit(user string, tokenID int, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return invalidAmount("deposit")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := balanceKey{user, tokenID}
	bal, ok := m.balances[k]
	if !ok {
		bal = new(big.Int)
		m.balances[k] = bal
	}
	bal.Add(bal, amount)

	logrus.WithFields(logrus.Fields{
		"user":    user,
		"tokenID": tokenID,
		"amount":  amount.String(),
	}).Debug("deposit")

	return nil
}

// Balance returns a copy of the user's balance of tokenID.
func (m *MemoryBalances) Balance(user string, tokenID int) *big.Int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if bal, ok := m.balances[balanceKey{user, tokenID}]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (m *MemoryBalances) Debit(_ context.Context, user string, tokenID int, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return invalidAmount("debit")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bal, ok := m.balances[balanceKey{user, tokenID}]
	if !ok {
		return nil
	}
	bal.Sub(bal, amount)
	if bal.Sign() < 0 {
		bal.SetInt64(0)
	}
	return nil
}
