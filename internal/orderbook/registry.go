package orderbook

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// FeeDenominator is the exchange fee denominator: fees are 1/FeeDenominator.
const FeeDenominator = 1000

// Registry owns the token table and every user's order ledger for one
// network. All state changes go through its methods.
type Registry struct {
	NetworkID uint64

	mu     sync.RWMutex
	tokens *tokenTable
	// orders maps a user to their orders in placement order.
	orders map[string][]*Order

	batches  BatchSource
	balances BalanceProvider
}

// Options configures a Registry. Tokens are registered in order and count
// towards MaxTokens. Orders seeds each user's ledger after the tokens are
// registered; the seeded ID and Owner are ignored and reassigned.
type Options struct {
	NetworkID uint64
	MaxTokens int
	Tokens    []string
	Orders    map[string][]Order
	Batches   BatchSource
	Balances  BalanceProvider
}

// NewRegistry creates a Registry pre-loaded with opts.Tokens and opts.Orders.
func NewRegistry(opts Options) (*Registry, error) {
	if opts.Batches == nil {
		opts.Batches = NewTimeBatches(DefaultBatchDuration)
	}
	if opts.Balances == nil {
		opts.Balances = NewMemoryBalances()
	}

	r := &Registry{
		NetworkID: opts.NetworkID,
		tokens:    newTokenTable(opts.MaxTokens),
		orders:    make(map[string][]*Order),
		batches:   opts.Batches,
		balances:  opts.Balances,
	}

	for _, addr := range opts.Tokens {
		if _, err := r.tokens.add(addr); err != nil {
			return nil, fmt.Errorf("register token %s: %w", addr, err)
		}
	}

	for user, orders := range opts.Orders {
		for i, o := range orders {
			if err := r.seedOrder(user, o); err != nil {
				return nil, fmt.Errorf("seed order %d of %s: %w", i, user, err)
			}
		}
	}

	return r, nil
}

// seedOrder appends o to the user's ledger as-is, without touching balances.
// A nil RemainingAmount defaults to the full buy amount.
func (r *Registry) seedOrder(user string, o Order) error {
	if err := r.checkTokens(o.BuyTokenID, o.SellTokenID); err != nil {
		return err
	}
	if o.PriceNumerator == nil || o.PriceNumerator.Sign() < 0 {
		return invalidAmount("price numerator")
	}
	if o.PriceDenominator == nil || o.PriceDenominator.Sign() < 0 {
		return invalidAmount("price denominator")
	}
	if o.RemainingAmount == nil {
		o.RemainingAmount = o.PriceNumerator
	} else if o.RemainingAmount.Sign() < 0 {
		return invalidAmount("remaining amount")
	}

	order := o.Clone()
	order.ID = strconv.Itoa(len(r.orders[user]))
	order.Owner = user
	r.orders[user] = append(r.orders[user], &order)
	return nil
}

func (r *Registry) checkTokens(buyTokenID, sellTokenID int) error {
	if _, ok := r.tokens.address(buyTokenID); !ok {
		return fmt.Errorf("buy token %d: %w", buyTokenID, errIDNotFound())
	}
	if _, ok := r.tokens.address(sellTokenID); !ok {
		return fmt.Errorf("sell token %d: %w", sellTokenID, errIDNotFound())
	}
	return nil
}

func (r *Registry) CurrentBatch() int64 {
	return r.batches.CurrentBatch()
}

func (r *Registry) FeeDenominator() int {
	return FeeDenominator
}

func (r *Registry) NumTokens() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tokens.len()
}

func (r *Registry) TokenIDByAddress(addr string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.tokens.id(addr)
	if !ok {
		return 0, errAddressNotFound()
	}
	return id, nil
}

func (r *Registry) TokenAddressByID(id int) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addr, ok := r.tokens.address(id)
	if !ok {
		return "", errIDNotFound()
	}
	return addr, nil
}

// Tokens lists the registered tokens in id order.
func (r *Registry) Tokens() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Token, r.tokens.len())
	for i, addr := range r.tokens.addrs {
		out[i] = Token{ID: i, Address: addr}
	}
	return out
}

// AddToken registers addr at the next sequential id.
func (r *Registry) AddToken(addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.tokens.add(addr)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"network": r.NetworkID,
		"address": addr,
		"id":      id,
	}).Info("new token")

	return nil
}

// Orders returns copies of the user's orders in placement order. A user
// with no orders gets an empty slice.
func (r *Registry) Orders(user string) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userOrders := r.orders[user]
	out := make([]Order, len(userOrders))
	for i, o := range userOrders {
		out[i] = o.Clone()
	}
	return out
}

// PlaceOrderParams describes a new order. ValidUntil is an offset in
// batches from the current batch.
type PlaceOrderParams struct {
	User        string
	BuyTokenID  int
	SellTokenID int
	ValidUntil  uint32
	BuyAmount   *big.Int
	SellAmount  *big.Int
}

// PlaceOrder appends a new open order to the user's ledger and debits
// SellAmount of SellTokenID from the user's balance.
func (r *Registry) PlaceOrder(ctx context.Context, p PlaceOrderParams) (Receipt, error) {
	if p.BuyAmount == nil || p.BuyAmount.Sign() < 0 {
		return Receipt{}, invalidAmount("buy amount")
	}
	if p.SellAmount == nil || p.SellAmount.Sign() < 0 {
		return Receipt{}, invalidAmount("sell amount")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkTokens(p.BuyTokenID, p.SellTokenID); err != nil {
		return Receipt{}, err
	}

	if err := r.balances.Debit(ctx, p.User, p.SellTokenID, p.SellAmount); err != nil {
		return Receipt{}, fmt.Errorf("debit balance: %w", err)
	}

	batch := r.batches.CurrentBatch()
	order := &Order{
		ID:               strconv.Itoa(len(r.orders[p.User])),
		Owner:            p.User,
		BuyTokenID:       p.BuyTokenID,
		SellTokenID:      p.SellTokenID,
		ValidFrom:        batch,
		ValidUntil:       batch + int64(p.ValidUntil),
		PriceNumerator:   cloneInt(p.BuyAmount),
		PriceDenominator: cloneInt(p.SellAmount),
		RemainingAmount:  cloneInt(p.BuyAmount),
	}
	r.orders[p.User] = append(r.orders[p.User], order)

	logrus.WithFields(logrus.Fields{
		"network":    r.NetworkID,
		"user":       p.User,
		"id":         order.ID,
		"buyToken":   order.BuyTokenID,
		"sellToken":  order.SellTokenID,
		"validFrom":  order.ValidFrom,
		"validUntil": order.ValidUntil,
	}).Info("new order")

	return newReceipt(r.NetworkID, p.User, order.ID, batch), nil
}

// CancelOrders expires each listed order as of the previous batch. Ids that
// do not index into the user's ledger are ignored. Only orders still open
// become Cancelled; an already expired order stays Expired.
func (r *Registry) CancelOrders(user string, orderIDs []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userOrders, ok := r.orders[user]
	if !ok {
		return
	}

	batch := r.batches.CurrentBatch()
	for _, id := range orderIDs {
		if id < 0 || id >= len(userOrders) {
			continue
		}

		order := userOrders[id]
		if order.IsOpen(batch) {
			order.cancelled = true
		}
		order.ValidUntil = batch - 1

		logrus.WithFields(logrus.Fields{
			"network": r.NetworkID,
			"user":    user,
			"id":      order.ID,
			"batch":   batch,
		}).Info("order cancelled")
	}
}

// OpenBook groups the open orders buying buyTokenID with sellTokenID into
// price levels, best rate first. Orders with a zero denominator have no
// rate and are left out.
func (r *Registry) OpenBook(buyTokenID, sellTokenID int) []*Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch := r.batches.CurrentBatch()
	levels := make(map[string]*Level)
	for _, userOrders := range r.orders {
		for _, o := range userOrders {
			if o.BuyTokenID != buyTokenID || o.SellTokenID != sellTokenID || !o.IsOpen(batch) {
				continue
			}

			rate := o.Rate()
			if rate == nil {
				continue
			}

			key := rate.RatString()
			level, ok := levels[key]
			if !ok {
				level = NewLevel(rate)
				levels[key] = level
			}
			c := o.Clone()
			level.AddOrder(&c)
		}
	}

	out := make(Levels, 0, len(levels))
	for _, l := range levels {
		sort.Sort(l.Orders)
		out = append(out, l)
	}
	sort.Sort(ByBestRate{out})

	return out
}
