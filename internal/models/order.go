package models

import (
	"github.com/echenim/batchex/internal/explorer"
	"github.com/echenim/batchex/internal/orderbook"
)

// Order is the JSON view of an order. Amounts are decimal strings.
type Order struct {
	ID               string `json:"id"`
	User             string `json:"user"`
	BuyTokenID       int    `json:"buyTokenId"`
	SellTokenID      int    `json:"sellTokenId"`
	ValidFrom        int64  `json:"validFrom"`
	ValidUntil       int64  `json:"validUntil"`
	PriceNumerator   string `json:"priceNumerator"`
	PriceDenominator string `json:"priceDenominator"`
	RemainingAmount  string `json:"remainingAmount"`
	State            string `json:"state"`
}

func NewOrder(o orderbook.Order, batch int64) Order {
	return Order{
		ID:               o.ID,
		User:             o.Owner,
		BuyTokenID:       o.BuyTokenID,
		SellTokenID:      o.SellTokenID,
		ValidFrom:        o.ValidFrom,
		ValidUntil:       o.ValidUntil,
		PriceNumerator:   o.PriceNumerator.String(),
		PriceDenominator: o.PriceDenominator.String(),
		RemainingAmount:  o.RemainingAmount.String(),
		State:            o.State(batch).String(),
	}
}

type Receipt struct {
	TxHash  string `json:"txHash"`
	OrderID string `json:"orderId"`
	Batch   int64  `json:"batch"`
	Link    string `json:"link,omitempty"`
}

func NewReceipt(networkID uint64, r orderbook.Receipt) Receipt {
	hash := r.TxHash.Hex()
	link, _ := explorer.Link(networkID, explorer.KindTx, hash)
	return Receipt{
		TxHash:  hash,
		OrderID: r.OrderID,
		Batch:   r.Batch,
		Link:    link,
	}
}

type Token struct {
	ID      int    `json:"id"`
	Address string `json:"address"`
	Label   string `json:"label"`
	Link    string `json:"link,omitempty"`
}

func NewToken(networkID uint64, id int, address string) Token {
	link, _ := explorer.Link(networkID, explorer.KindToken, address)
	return Token{
		ID:      id,
		Address: address,
		Label:   explorer.Label(address),
		Link:    link,
	}
}

type APIError struct {
	Error string `json:"error"`
}
