// Package correlate joins compact-block reconstruction events against mempool
// rejections to find out why a block's missing transactions were not in the
// mempool.
//
// Rejections are indexed by wtxid, the only identifier both event types
// share. The join then reports each resolved transaction under its txid.
package correlate

import (
	"github.com/bimmerbailey/cmpctrej/internal/logline"
)

// Index maps wtxid to the latest rejection logged for it.
type Index map[string]Rejection

// BuildIndex parses every rejection line. A wtxid rejected more than once
// keeps the last occurrence in file order.
func BuildIndex(lines []logline.Line) (Index, error) {
	idx := make(Index, len(lines))
	for _, l := range lines {
		rej, err := ParseRejection(l)
		if err != nil {
			return nil, err
		}
		idx[rej.Wtxid] = rej
	}
	return idx, nil
}

// Join resolves every reconstruction line against idx. Requirements with no
// matching rejection are counted in Unresolved and otherwise left out.
func Join(idx Index, lines []logline.Line) (*Result, error) {
	res := newResult()
	for _, l := range lines {
		req, err := ParseReconstruction(l)
		if err != nil {
			return nil, err
		}
		if res.FirstBlock == "" {
			res.FirstBlock = req.BlockHash
		}
		res.LastBlock = req.BlockHash

		rej, ok := idx[req.Wtxid]
		if !ok {
			res.Unresolved++
			continue
		}

		reason := rej.Reason
		if reason == "" {
			reason = NoReason
		}
		res.set(req.BlockHash, rej.Txid, reason)
		res.Resolved++
	}
	return res, nil
}

// Correlate builds the rejection index from b and joins the reconstruction
// bucket against it. It holds no state between calls.
func Correlate(b logline.Buckets) (*Result, error) {
	idx, err := BuildIndex(b.Rejections)
	if err != nil {
		return nil, err
	}
	return Join(idx, b.Reconstructions)
}
