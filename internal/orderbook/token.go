package orderbook

// Token is a registered asset. ID is its position in registration order.
type Token struct {
	ID      int
	Address string
}

// tokenTable keeps addresses in insertion order with a reverse index.
type tokenTable struct {
	addrs []string
	ids   map[string]int
	max   int
}

func newTokenTable(max int) *tokenTable {
	return &tokenTable{
		addrs: []string{},
		ids:   make(map[string]int),
		max:   max,
	}
}

func (t *tokenTable) len() int {
	return len(t.addrs)
}

func (t *tokenTable) id(addr string) (int, bool) {
	id, ok := t.ids[addr]
	return id, ok
}

func (t *tokenTable) address(id int) (string, bool) {
	if id < 0 || id >= len(t.addrs) {
		return "", false
	}
	return t.addrs[id], true
}

func (t *tokenTable) add(addr string) (int, error) {
	if _, ok := t.ids[addr]; ok {
		return 0, &DuplicateTokenError{Address: addr}
	}
	if len(t.addrs) >= t.max {
		return 0, &CapacityError{Max: t.max}
	}

	id := len(t.addrs)
	t.addrs = append(t.addrs, addr)
	t.ids[addr] = id
	return id, nil
}
