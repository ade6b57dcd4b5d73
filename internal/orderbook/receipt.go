package orderbook

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Receipt acknowledges a placed order. TxHash is stable for the same
// (network, owner, order id, batch) tuple.
type Receipt struct {
	TxHash  common.Hash
	OrderID string
	Batch   int64
}

func newReceipt(networkID uint64, owner, orderID string, batch int64) Receipt {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], networkID)
	binary.BigEndian.PutUint64(buf[8:], uint64(batch))

	return Receipt{
		TxHash:  crypto.Keccak256Hash(buf[:], []byte(owner), []byte(orderID)),
		OrderID: orderID,
		Batch:   batch,
	}
}
