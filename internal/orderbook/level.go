package orderbook

import "math/big"

// Level collects the open orders that share one exact rate.
type Level struct {
	Rate        *big.Rat
	Orders      Orders
	TotalVolume *big.Int
}

type Levels []*Level

func NewLevel(rate *big.Rat) *Level {
	return &Level{
		Rate:        new(big.Rat).Set(rate),
		Orders:      Orders{},
		TotalVolume: new(big.Int),
	}
}

// AddOrder appends o and adds its remaining amount to the level volume.
func (l *Level) AddOrder(o *Order) {
	l.Orders = append(l.Orders, o)
	if o.RemainingAmount != nil {
		l.TotalVolume.Add(l.TotalVolume, o.RemainingAmount)
	}
}

// ByBestRate sorts levels from the highest rate to the lowest.
type ByBestRate struct{ Levels }

func (b ByBestRate) Len() int      { return len(b.Levels) }
func (b ByBestRate) Swap(i, j int) { b.Levels[i], b.Levels[j] = b.Levels[j], b.Levels[i] }

func (b ByBestRate) Less(i, j int) bool {
	return b.Levels[i].Rate.Cmp(b.Levels[j].Rate) > 0
}
