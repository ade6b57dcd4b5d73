package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0x4444444444444444444444444444444444444abc"

func TestLink(t *testing.T) {
	cases := []struct {
		network uint64
		kind    Kind
		want    string
	}{
		{Mainnet, KindTx, "https://etherscan.io/tx/" + addr},
		{Mainnet, KindEvent, "https://etherscan.io/tx/" + addr},
		{Rinkeby, KindToken, "https://rinkeby.etherscan.io/token/" + addr},
		{Gnosis, KindAddress, "https://gnosisscan.io/address/" + addr},
		{Boba, KindContract, "https://bobascan.com/address/" + addr},
	}

	for _, c := range cases {
		got, err := Link(c.network, c.kind, addr)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestLinkErrors(t *testing.T) {
	_, err := Link(77, KindTx, addr)
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	_, err = Link(Mainnet, KindTx, "")
	assert.Error(t, err)

	_, err = Link(Mainnet, Kind("block"), addr)
	assert.Error(t, err)
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "0x4444...4abc", Label(addr))
	assert.Equal(t, "short", Abbreviate("short", 6, 4))
	assert.Equal(t, "ab...yz", Abbreviate("abcdefwxyz", 2, 2))
}

func TestNetworkPrefixes(t *testing.T) {
	assert.Equal(t, Gnosis, NetworkByPrefix("gc", Mainnet))
	assert.Equal(t, Rinkeby, NetworkByPrefix("rinkeby", Mainnet))
	assert.Equal(t, Boba, NetworkByPrefix("", Boba))
	assert.Equal(t, Mainnet, NetworkByPrefix("nope", Mainnet))

	assert.Equal(t, "gc", PrefixByNetwork(Gnosis))
	assert.Equal(t, "", PrefixByNetwork(Mainnet))
	assert.Equal(t, "", PrefixByNetwork(12345))
}

func TestSplitPath(t *testing.T) {
	prefix, suffix := SplitPath("/gc/orders/123")
	assert.Equal(t, "gc", prefix)
	assert.Equal(t, "orders/123", suffix)

	prefix, suffix = SplitPath("/orders/123")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "orders/123", suffix)

	prefix, suffix = SplitPath("/boba")
	assert.Equal(t, "boba", prefix)
	assert.Equal(t, "", suffix)
}

func TestRoutePrefix(t *testing.T) {
	assert.Equal(t, "gc", RoutePrefix(Gnosis))
	assert.Equal(t, "rinkeby", RoutePrefix(Rinkeby))
	assert.Equal(t, "mainnet", RoutePrefix(Mainnet))
	assert.Equal(t, "5", RoutePrefix(5))
}
