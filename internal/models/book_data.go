package models

import "github.com/echenim/batchex/internal/orderbook"

type Level struct {
	Rate        string  `json:"rate"`
	TotalVolume string  `json:"totalVolume"`
	Orders      []Order `json:"orders"`
}

// BookData is the open-order view of one token pair.
type BookData struct {
	BuyTokenID  int     `json:"buyTokenId"`
	SellTokenID int     `json:"sellTokenId"`
	Batch       int64   `json:"batch"`
	Levels      []Level `json:"levels"`
}

func NewBookData(buy, sell int, batch int64, levels []*orderbook.Level) BookData {
	data := BookData{
		BuyTokenID:  buy,
		SellTokenID: sell,
		Batch:       batch,
		Levels:      []Level{},
	}

	for _, l := range levels {
		level := Level{
			Rate:        l.Rate.RatString(),
			TotalVolume: l.TotalVolume.String(),
			Orders:      make([]Order, 0, len(l.Orders)),
		}
		for _, o := range l.Orders {
			level.Orders = append(level.Orders, NewOrder(*o, batch))
		}
		data.Levels = append(data.Levels, level)
	}

	return data
}
