package models

import "github.com/ethereum/go-ethereum/common/math"

// PlaceOrderRequest is the body of POST /orders. Amounts accept decimal or
// 0x-prefixed hex strings.
type PlaceOrderRequest struct {
	UserAddress string                `json:"userAddress"`
	BuyTokenID  int                   `json:"buyTokenId"`
	SellTokenID int                   `json:"sellTokenId"`
	ValidUntil  uint32                `json:"validUntil"`
	BuyAmount   *math.HexOrDecimal256 `json:"buyAmount"`
	SellAmount  *math.HexOrDecimal256 `json:"sellAmount"`
}

type CancelOrdersRequest struct {
	OrderIDs []int `json:"orderIds"`
}

type AddTokenRequest struct {
	TokenAddress string `json:"tokenAddress"`
}

type DepositRequest struct {
	UserAddress string                `json:"userAddress"`
	TokenID     int                   `json:"tokenId"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
}
