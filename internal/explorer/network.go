package explorer

import (
	"strconv"
	"strings"
)

// NetworkByPrefix resolves a URL path prefix to a network id, falling back
// to def for unknown prefixes.
func NetworkByPrefix(prefix string, def uint64) uint64 {
	for _, n := range Networks {
		if n.Prefix == prefix {
			if prefix == "" {
				return def
			}
			return n.ID
		}
	}
	return def
}

// PrefixByNetwork returns the URL prefix for id, or "" when it has none.
func PrefixByNetwork(id uint64) string {
	if n, ok := lookup(id); ok {
		return n.Prefix
	}
	return ""
}

// RoutePrefix returns the path segment a non-default network is served
// under: its URL prefix, else its name, else its decimal id.
func RoutePrefix(id uint64) string {
	if prefix := PrefixByNetwork(id); prefix != "" {
		return prefix
	}
	if n, ok := lookup(id); ok {
		return n.Name
	}
	return strconv.FormatUint(id, 10)
}

// SplitPath decomposes a pathname into its network prefix and the rest,
// e.g. "/gc/orders/123" becomes ("gc", "orders/123").
func SplitPath(path string) (prefix, suffix string) {
	trimmed := strings.TrimPrefix(path, "/")
	head, rest, _ := strings.Cut(trimmed, "/")
	for _, n := range Networks {
		if n.Prefix != "" && n.Prefix == head {
			return head, rest
		}
	}
	return "", trimmed
}
