package correlate

// NoReason stands in for a rejection logged without a reason, so every
// resolved entry carries non-empty text.
const NoReason = "(no reason)"

// Result maps block hash -> txid -> rejection reason for every required
// transaction that resolved to a mempool rejection. Blocks and txids iterate
// in the order they were first recorded.
type Result struct {
	blocks map[string]*blockEntry
	order  []string

	// Resolved counts reconstruction lines whose wtxid matched a rejection.
	Resolved int
	// Unresolved counts reconstruction lines with no matching rejection.
	Unresolved int

	// FirstBlock and LastBlock are the block hashes of the first and last
	// reconstruction lines joined, resolved or not.
	FirstBlock string
	LastBlock  string
}

type blockEntry struct {
	reasons map[string]string
	order   []string
}

func newResult() *Result {
	return &Result{blocks: make(map[string]*blockEntry)}
}

func (r *Result) set(block, txid, reason string) {
	b, ok := r.blocks[block]
	if !ok {
		b = &blockEntry{reasons: make(map[string]string)}
		r.blocks[block] = b
		r.order = append(r.order, block)
	}
	if _, seen := b.reasons[txid]; !seen {
		b.order = append(b.order, txid)
	}
	b.reasons[txid] = reason
}

// Empty reports whether no requirement resolved.
func (r *Result) Empty() bool {
	return len(r.order) == 0
}

// Blocks returns the block hashes in first-recorded order.
func (r *Result) Blocks() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Txids returns the txids recorded for block in first-recorded order.
func (r *Result) Txids(block string) []string {
	b, ok := r.blocks[block]
	if !ok {
		return nil
	}
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Reason returns the rejection reason recorded for txid in block.
func (r *Result) Reason(block, txid string) (string, bool) {
	b, ok := r.blocks[block]
	if !ok {
		return "", false
	}
	reason, ok := b.reasons[txid]
	return reason, ok
}

// Pairs returns the number of (block, txid) entries.
func (r *Result) Pairs() int {
	n := 0
	for _, b := range r.blocks {
		n += len(b.order)
	}
	return n
}

// Each calls fn for every (block, txid, reason) entry in order.
func (r *Result) Each(fn func(block, txid, reason string)) {
	for _, hash := range r.order {
		b := r.blocks[hash]
		for _, txid := range b.order {
			fn(hash, txid, b.reasons[txid])
		}
	}
}

// Map returns a copy of the result as nested maps.
func (r *Result) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(r.blocks))
	for hash, b := range r.blocks {
		inner := make(map[string]string, len(b.reasons))
		for txid, reason := range b.reasons {
			inner[txid] = reason
		}
		out[hash] = inner
	}
	return out
}
