package correlate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/cmpctrej/internal/logline"
)

const (
	exampleTx    = "d92185c34f804047a9b58d5279ef0009f3bf06a4c9b32ef19544f7698498a8d7"
	exampleBlock = "0000000ed028eada29fc462f406fa783077948b0255206001091007b37853b62"
)

func hash(c string) string {
	return strings.Repeat(c, 64)
}

func rejection(num int, txid, wtxid, reason string) logline.Line {
	raw := "2025-08-28T23:01:08Z [mempoolrej] " + txid + " (wtxid=" + wtxid + ") from peer=6 was not accepted: " + reason
	return logline.Line{Raw: raw, Num: num}
}

func reconstruction(num int, block, wtxid string) logline.Line {
	raw := "2025-08-28T22:45:05Z [cmpctblock] Reconstructed block " + block + " required tx " + wtxid
	return logline.Line{Raw: raw, Num: num}
}

func TestParseRejection(t *testing.T) {
	rej, err := ParseRejection(rejection(7, hash("1"), hash("2"), "  insufficient fee, rejecting replacement  "))
	require.NoError(t, err)

	assert.Equal(t, hash("2"), rej.Wtxid)
	assert.Equal(t, hash("1"), rej.Txid)
	assert.Equal(t, "insufficient fee, rejecting replacement", rej.Reason)
	assert.Equal(t, 7, rej.Line)
}

func TestParseRejectionSameTxidAndWtxid(t *testing.T) {
	rej, err := ParseRejection(rejection(1, exampleTx, exampleTx, "bad-txns-inputs-missingorspent"))
	require.NoError(t, err)

	assert.Equal(t, exampleTx, rej.Wtxid)
	assert.Equal(t, exampleTx, rej.Txid)
	assert.Equal(t, "bad-txns-inputs-missingorspent", rej.Reason)
}

func TestParseRejectionMissingReason(t *testing.T) {
	line := logline.Line{Raw: "[mempoolrej] " + hash("a") + " (wtxid=" + hash("b") + ") from peer=1", Num: 3}

	rej, err := ParseRejection(line)
	require.NoError(t, err)
	assert.Empty(t, rej.Reason)
	assert.Equal(t, hash("b"), rej.Wtxid)
}

func TestParseRejectionMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{"no wtxid marker", "[mempoolrej] " + hash("a") + " from peer=1 was not accepted: x", "wtxid="},
		{"short wtxid", "[mempoolrej] (wtxid=abcd) was not accepted: x", "wtxid="},
		{"wtxid glued to longer hex", "[mempoolrej] wtxid=" + hash("a") + "ff was not accepted: x", "txid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRejection(logline.Line{Raw: tt.raw, Num: 12})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))

			var me *MalformedError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.missing, me.Missing)
			assert.Equal(t, logline.CategoryRejection, me.Kind)
			assert.Contains(t, err.Error(), "line 12")
			assert.Contains(t, err.Error(), tt.raw)
		})
	}
}

func TestParseReconstruction(t *testing.T) {
	req, err := ParseReconstruction(reconstruction(4, exampleBlock, exampleTx))
	require.NoError(t, err)

	assert.Equal(t, exampleBlock, req.BlockHash)
	assert.Equal(t, exampleTx, req.Wtxid)
	assert.Equal(t, 4, req.Line)
}

func TestParseReconstructionUsesFirstTwoHashes(t *testing.T) {
	line := logline.Line{Raw: "[cmpctblock] Reconstructed block " + hash("a") + " required tx " + hash("b") + " extra " + hash("c")}

	req, err := ParseReconstruction(line)
	require.NoError(t, err)
	assert.Equal(t, hash("a"), req.BlockHash)
	assert.Equal(t, hash("b"), req.Wtxid)
}

func TestParseReconstructionMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{"no hashes", "[cmpctblock] Reconstructed block", "block hash"},
		{"one hash", "[cmpctblock] Reconstructed block " + hash("a") + " required tx", "required wtxid"},
		{"uppercase hash ignored", "[cmpctblock] Reconstructed block " + hash("a") + " required tx " + hash("B"), "required wtxid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReconstruction(logline.Line{Raw: tt.raw, Num: 9})
			require.Error(t, err)

			var me *MalformedError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.missing, me.Missing)
			assert.Equal(t, logline.CategoryReconstruction, me.Kind)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestBuildIndexLastWriteWins(t *testing.T) {
	idx, err := BuildIndex([]logline.Line{
		rejection(1, hash("1"), hash("2"), "too-long-mempool-chain"),
		rejection(2, hash("3"), hash("4"), "insufficient fee"),
		rejection(3, hash("5"), hash("2"), "min relay fee not met"),
	})
	require.NoError(t, err)

	require.Len(t, idx, 2)
	assert.Equal(t, "min relay fee not met", idx[hash("2")].Reason)
	assert.Equal(t, hash("5"), idx[hash("2")].Txid)
	assert.Equal(t, 3, idx[hash("2")].Line)
}

func TestBuildIndexFailsFast(t *testing.T) {
	_, err := BuildIndex([]logline.Line{
		rejection(1, hash("1"), hash("2"), "x"),
		{Raw: "[mempoolrej] garbage", Num: 2},
	})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestCorrelateExample(t *testing.T) {
	b := logline.Classify([]logline.Line{
		{Raw: "2025-08-28T23:01:08Z [mempoolrej] " + exampleTx + " (wtxid=" + exampleTx + ") from peer=6 was not accepted: bad-txns-inputs-missingorspent", Num: 1},
		{Raw: "2025-08-28T22:45:05Z [cmpctblock] Reconstructed block " + exampleBlock + " required tx " + exampleTx, Num: 2},
	})

	res, err := Correlate(b)
	require.NoError(t, err)

	want := map[string]map[string]string{
		exampleBlock: {exampleTx: "bad-txns-inputs-missingorspent"},
	}
	assert.Equal(t, want, res.Map())
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, 0, res.Unresolved)
	assert.Equal(t, 1, res.Pairs())
}

func TestJoinUsesTxidNotWtxid(t *testing.T) {
	idx, err := BuildIndex([]logline.Line{rejection(1, hash("1"), hash("2"), "insufficient fee")})
	require.NoError(t, err)

	res, err := Join(idx, []logline.Line{reconstruction(2, hash("0"), hash("2"))})
	require.NoError(t, err)

	reason, ok := res.Reason(hash("0"), hash("1"))
	require.True(t, ok)
	assert.Equal(t, "insufficient fee", reason)

	_, ok = res.Reason(hash("0"), hash("2"))
	assert.False(t, ok, "wtxid must not be used as the result key")
}

func TestJoinOmitsUnresolved(t *testing.T) {
	idx, err := BuildIndex([]logline.Line{rejection(1, hash("1"), hash("2"), "insufficient fee")})
	require.NoError(t, err)

	res, err := Join(idx, []logline.Line{
		reconstruction(2, hash("a"), hash("2")),
		reconstruction(3, hash("a"), hash("9")),
		reconstruction(4, hash("b"), hash("8")),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{hash("a")}, res.Blocks())
	assert.Equal(t, []string{hash("1")}, res.Txids(hash("a")))
	assert.Nil(t, res.Txids(hash("b")))
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, 2, res.Unresolved)
}

func TestJoinRecordsFirstAndLastBlock(t *testing.T) {
	idx, err := BuildIndex([]logline.Line{rejection(1, hash("1"), hash("2"), "insufficient fee")})
	require.NoError(t, err)

	res, err := Join(idx, []logline.Line{
		reconstruction(2, hash("a"), hash("9")),
		reconstruction(3, hash("b"), hash("2")),
		reconstruction(4, hash("c"), hash("8")),
	})
	require.NoError(t, err)

	assert.Equal(t, hash("a"), res.FirstBlock)
	assert.Equal(t, hash("c"), res.LastBlock)

	empty, err := Join(idx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.FirstBlock)
	assert.Empty(t, empty.LastBlock)
}

func TestJoinEmptyReasonPlaceholder(t *testing.T) {
	idx, err := BuildIndex([]logline.Line{{Raw: "[mempoolrej] " + hash("1") + " (wtxid=" + hash("2") + ") from peer=3", Num: 1}})
	require.NoError(t, err)

	res, err := Join(idx, []logline.Line{reconstruction(2, hash("a"), hash("2"))})
	require.NoError(t, err)

	reason, ok := res.Reason(hash("a"), hash("1"))
	require.True(t, ok)
	assert.Equal(t, NoReason, reason)
}

func TestJoinMalformedReconstruction(t *testing.T) {
	_, err := Join(Index{}, []logline.Line{{Raw: "[cmpctblock] Reconstructed block " + hash("a"), Num: 42}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 42")
}

func TestCorrelateIdempotent(t *testing.T) {
	b := logline.Buckets{
		Rejections: []logline.Line{
			rejection(1, hash("1"), hash("2"), "insufficient fee"),
			rejection(2, hash("3"), hash("4"), "too-long-mempool-chain"),
		},
		Reconstructions: []logline.Line{
			reconstruction(3, hash("a"), hash("2")),
			reconstruction(4, hash("b"), hash("4")),
			reconstruction(5, hash("b"), hash("2")),
		},
	}

	first, err := Correlate(b)
	require.NoError(t, err)
	second, err := Correlate(b)
	require.NoError(t, err)

	assert.Equal(t, first.Map(), second.Map())
	assert.Equal(t, first.Blocks(), second.Blocks())
	assert.Equal(t, first.Resolved, second.Resolved)
}

func TestCorrelateEmpty(t *testing.T) {
	res, err := Correlate(logline.Buckets{})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.Pairs())
}

func TestResultEachOrder(t *testing.T) {
	res := newResult()
	res.set(hash("b"), hash("1"), "r1")
	res.set(hash("a"), hash("2"), "r2")
	res.set(hash("b"), hash("3"), "r3")
	res.set(hash("b"), hash("1"), "r4")

	var got []string
	res.Each(func(block, txid, reason string) {
		got = append(got, block[:1]+txid[:1]+":"+reason)
	})

	assert.Equal(t, []string{"b1:r4", "b3:r3", "a2:r2"}, got)
	assert.Equal(t, 3, res.Pairs())
}
