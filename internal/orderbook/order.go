package orderbook

import (
	"fmt"
	"math/big"
	"strconv"
)

// OrderState is derived from an order's batch window and the current batch.
type OrderState int

const (
	Open OrderState = iota
	Cancelled
	Expired
)

func (s OrderState) String() string {
	switch s {
	case Open:
		return "OPEN"
	case Cancelled:
		return "CANCELLED"
	case Expired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// Order is a standing instruction to buy BuyTokenID for SellTokenID at the
// rate PriceNumerator/PriceDenominator, valid over [ValidFrom, ValidUntil].
type Order struct {
	ID               string
	Owner            string
	BuyTokenID       int
	SellTokenID      int
	ValidFrom        int64
	ValidUntil       int64
	PriceNumerator   *big.Int
	PriceDenominator *big.Int
	RemainingAmount  *big.Int

	cancelled bool
}

type Orders []*Order

func (o Orders) Len() int      { return len(o) }
func (o Orders) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

// Less keeps placement order within a price level.
func (o Orders) Less(i, j int) bool {
	if o[i].ValidFrom != o[j].ValidFrom {
		return o[i].ValidFrom < o[j].ValidFrom
	}
	if o[i].Owner != o[j].Owner {
		return o[i].Owner < o[j].Owner
	}
	return o[i].index() < o[j].index()
}

func (o *Order) index() int {
	n, _ := strconv.Atoi(o.ID)
	return n
}

func (o *Order) String() string {
	return fmt.Sprintf("[id: %s] | [owner: %s] | [%d -> %d] | [%d..%d]",
		o.ID, o.Owner, o.SellTokenID, o.BuyTokenID, o.ValidFrom, o.ValidUntil)
}

// State reports the lifecycle state of the order as of batch.
func (o *Order) State(batch int64) OrderState {
	if o.cancelled {
		return Cancelled
	}
	if o.ValidUntil < batch {
		return Expired
	}
	return Open
}

func (o *Order) IsOpen(batch int64) bool {
	return o.State(batch) == Open
}

// Rate returns PriceNumerator/PriceDenominator, or nil for a zero denominator.
func (o *Order) Rate() *big.Rat {
	if o.PriceDenominator == nil || o.PriceDenominator.Sign() == 0 {
		return nil
	}
	return new(big.Rat).SetFrac(o.PriceNumerator, o.PriceDenominator)
}

// Clone returns a deep copy so callers never alias registry state.
func (o *Order) Clone() Order {
	c := *o
	c.PriceNumerator = cloneInt(o.PriceNumerator)
	c.PriceDenominator = cloneInt(o.PriceDenominator)
	c.RemainingAmount = cloneInt(o.RemainingAmount)
	return c
}

func cloneInt(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}
