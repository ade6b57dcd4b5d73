package orderbook

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeBatches(t *testing.T) {
	b := NewTimeBatches(5 * time.Minute)
	b.Now = func() time.Time { return time.Unix(30000, 0) }
	assert.Equal(t, int64(100), b.CurrentBatch())

	b.Now = func() time.Time { return time.Unix(30299, 0) }
	assert.Equal(t, int64(100), b.CurrentBatch())

	b.Now = func() time.Time { return time.Unix(30300, 0) }
	assert.Equal(t, int64(101), b.CurrentBatch())

	assert.Equal(t, DefaultBatchDuration, NewTimeBatches(0).Duration)
}

func TestManualBatchesNeverDecrease(t *testing.T) {
	m := NewManualBatches(10)
	m.Set(5)
	assert.Equal(t, int64(10), m.CurrentBatch())

	m.Set(12)
	assert.Equal(t, int64(12), m.CurrentBatch())

	assert.Equal(t, int64(15), m.Advance(3))
	assert.Equal(t, int64(15), m.Advance(-1))
}

func TestMemoryBalances(t *testing.T) {
	m := NewMemoryBalances()

	assertBigInt(t, 0, m.Balance(user1, 1))
	assert.ErrorIs(t, m.Deposit(user1, 1, big.NewInt(-1)), ErrInvalidAmount)

	assert.NoError(t, m.Deposit(user1, 1, big.NewInt(10)))
	assert.NoError(t, m.Deposit(user1, 1, big.NewInt(5)))
	assertBigInt(t, 15, m.Balance(user1, 1))

	assert.NoError(t, m.Debit(context.Background(), user1, 1, big.NewInt(20)))
	assertBigInt(t, 0, m.Balance(user1, 1))

	assert.NoError(t, m.Debit(context.Background(), user2, 1, big.NewInt(1)))
	assertBigInt(t, 0, m.Balance(user2, 1))
}

func TestNewMemoryBalancesFrom(t *testing.T) {
	m, err := NewMemoryBalancesFrom([]Balance{
		{User: user1, TokenID: 1, Amount: big.NewInt(7)},
		{User: user1, TokenID: 1, Amount: big.NewInt(3)},
		{User: user2, TokenID: 2, Amount: big.NewInt(4)},
	})
	require.NoError(t, err)
	assertBigInt(t, 10, m.Balance(user1, 1))
	assertBigInt(t, 4, m.Balance(user2, 2))

	_, err = NewMemoryBalancesFrom([]Balance{{User: user1, TokenID: 1}})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
