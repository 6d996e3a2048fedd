// Package aprecover implements the Auditing Party's offline discrete-log
// recovery table: given a target point H = x*Base for some small x, recover
// x in O(2^n) time and memory using a baby-step/giant-step table keyed by
// the low n bits of x.
//
// This is not exercised by any verifier; it is a tool the AP runs out of
// band, after a transaction has been accepted, to decrypt the output values
// it is entitled to see (see the tx package's AP value declaration).
package aprecover

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/takakv/zkpay/curve"
)

// DefaultN is the reference table size (2^20 entries). A table of this size
// lets Recover resolve any value below 2^40; larger values are not
// recovered.
const DefaultN = 20

// Table maps j*Base to j for j in [0, 2^n), letting Recover resolve any
// target known to be of the form x*Base with x < 2^(2n) by giant-stepping
// through i*2^n*Base and looking up the baby-step remainder.
//
// Entries are keyed by a SHA3-256 digest of the compressed point rather
// than the reference's raw low-20-bit byte bucket: the reference's bucket
// scheme exists to keep per-bucket collision chains short in a fixed-size
// array, which a Go map already handles internally, so hashing the full
// point into a fixed-size comparable array key gets the same O(1) lookup
// without hand-rolling chaining.
type Table struct {
	n     uint
	base  curve.Point
	index map[[32]byte]uint64
}

// NewTable builds a recovery table of 2^n entries over the default base
// point (curve.BaseG()).
func NewTable(n uint) *Table {
	return NewTableWithBase(n, curve.BaseG())
}

// NewTableWithBase builds a recovery table of 2^n entries over base. The tx
// package's AP value declaration recovers values relative to curve.BaseL(),
// not BaseG(), which is why the base is a parameter rather than fixed.
func NewTableWithBase(n uint, base curve.Point) *Table {
	size := uint64(1) << n
	index := make(map[[32]byte]uint64, size)

	acc := curve.Identity()
	for j := uint64(0); j < size; j++ {
		index[bucketKey(acc)] = j
		acc = acc.Add(base)
	}

	return &Table{n: n, base: base, index: index}
}

// Recover attempts to find x < 2^(2n) such that target = x*Base, returning
// (x, true) on success or (0, false) if target is not of that form within
// the table's range.
func (t *Table) Recover(target curve.Point) (uint64, bool) {
	step := t.base.ScalarMult(curve.ScalarFromBigInt(new(big.Int).Lsh(big.NewInt(1), t.n)))
	size := uint64(1) << t.n

	cur := target
	for i := uint64(0); i < size; i++ {
		if j, ok := t.index[bucketKey(cur)]; ok {
			return (i << t.n) + j, true
		}
		cur = cur.Subtract(step)
	}
	return 0, false
}

func bucketKey(p curve.Point) [32]byte {
	return sha3.Sum256(p.Bytes())
}
