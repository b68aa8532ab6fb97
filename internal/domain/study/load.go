package study

// Ticket identifies one load of a session. Only the most recently issued
// ticket may deliver a result.
type Ticket uint64

// loadGuard hands out tickets and recognises stale ones.
type loadGuard struct {
	current Ticket
}

func (g *loadGuard) next() Ticket {
	g.current++
	return g.current
}

func (g *loadGuard) isCurrent(t Ticket) bool {
	return t == g.current
}
