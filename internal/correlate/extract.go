package correlate

import (
	"regexp"
	"strings"

	"github.com/bimmerbailey/cmpctrej/internal/logline"
)

var (
	// hexToken matches a standalone 64-character lowercase hex hash.
	hexToken = regexp.MustCompile(`\b[0-9a-f]{64}\b`)

	wtxidField = regexp.MustCompile(`wtxid=([0-9a-f]{64})`)
)

const reasonMarker = "was not accepted:"

// Rejection is a mempool rejection keyed by wtxid.
type Rejection struct {
	Wtxid  string `json:"wtxid"`
	Txid   string `json:"txid"`
	Reason string `json:"reason"`
	Line   int    `json:"line"`
}

// Requirement is a transaction a reconstructed block needed from a peer.
type Requirement struct {
	BlockHash string `json:"block_hash"`
	Wtxid     string `json:"wtxid"`
	Line      int    `json:"line"`
}

// ParseRejection extracts a Rejection from a [mempoolrej] line.
//
// The txid is the first standalone hash on the line; for a transaction without
// witness data it is the same value as the wtxid. A missing "was not accepted:"
// suffix yields an empty reason rather than an error.
func ParseRejection(line logline.Line) (Rejection, error) {
	m := wtxidField.FindStringSubmatch(line.Raw)
	if m == nil {
		return Rejection{}, &MalformedError{Kind: logline.CategoryRejection, Line: line, Missing: "wtxid="}
	}

	txid := hexToken.FindString(line.Raw)
	if txid == "" {
		return Rejection{}, &MalformedError{Kind: logline.CategoryRejection, Line: line, Missing: "txid"}
	}

	var reason string
	if _, after, ok := strings.Cut(line.Raw, reasonMarker); ok {
		reason = strings.TrimSpace(after)
	}

	return Rejection{
		Wtxid:  m[1],
		Txid:   txid,
		Reason: reason,
		Line:   line.Num,
	}, nil
}

// ParseReconstruction extracts the block hash and required wtxid from a
// [cmpctblock] Reconstructed block line: the first two hashes, in order.
func ParseReconstruction(line logline.Line) (Requirement, error) {
	hashes := hexToken.FindAllString(line.Raw, 2)
	switch len(hashes) {
	case 0:
		return Requirement{}, &MalformedError{Kind: logline.CategoryReconstruction, Line: line, Missing: "block hash"}
	case 1:
		return Requirement{}, &MalformedError{Kind: logline.CategoryReconstruction, Line: line, Missing: "required wtxid"}
	}

	return Requirement{
		BlockHash: hashes[0],
		Wtxid:     hashes[1],
		Line:      line.Num,
	}, nil
}
