// Package explorer builds block-explorer links and maps URL path prefixes
// to network ids.
package explorer

import (
	"errors"
	"fmt"
)

// Kind is the type of object an explorer link points at.
type Kind string

const (
	KindTx       Kind = "tx"
	KindAddress  Kind = "address"
	KindContract Kind = "contract"
	KindToken    Kind = "token"
	KindEvent    Kind = "event"
)

var ErrUnknownNetwork = errors.New("unknown network")

// Network describes a supported chain.
type Network struct {
	ID       uint64
	Name     string
	Prefix   string
	Explorer string
}

const (
	Mainnet uint64 = 1
	Rinkeby uint64 = 4
	Gnosis  uint64 = 100
	Boba    uint64 = 288
)

// Networks are the chains the exchange knows how to link to.
var Networks = []Network{
	{ID: Mainnet, Name: "mainnet", Prefix: "", Explorer: "https://etherscan.io"},
	{ID: Rinkeby, Name: "rinkeby", Prefix: "rinkeby", Explorer: "https://rinkeby.etherscan.io"},
	{ID: Gnosis, Name: "gnosis", Prefix: "gc", Explorer: "https://gnosisscan.io"},
	{ID: Boba, Name: "boba", Prefix: "boba", Explorer: "https://bobascan.com"},
}

func lookup(id uint64) (Network, bool) {
	for _, n := range Networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

// Link returns the explorer URL for identifier on network id.
func Link(id uint64, kind Kind, identifier string) (string, error) {
	n, ok := lookup(id)
	if !ok {
		return "", fmt.Errorf("network %d: %w", id, ErrUnknownNetwork)
	}
	if identifier == "" {
		return "", errors.New("empty identifier")
	}

	var path string
	switch kind {
	case KindTx, KindEvent:
		path = "tx"
	case KindToken:
		path = "token"
	case KindAddress, KindContract:
		path = "address"
	default:
		return "", fmt.Errorf("unsupported link kind %q", kind)
	}

	return n.Explorer + "/" + path + "/" + identifier, nil
}

// Abbreviate shortens s to its first head and last tail characters.
func Abbreviate(s string, head, tail int) string {
	if head < 0 || tail < 0 || len(s) <= head+tail {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

// Label is the default display text for an explorer link.
func Label(identifier string) string {
	return Abbreviate(identifier, 6, 4)
}
