// Package transcript implements the Fiat-Shamir challenge derivations
// shared by every sigma protocol in this module: a two-point challenge used
// by the Bulletproof-IPA and range proof, and a data-plus-points challenge
// used by the Schnorr and OR-composition protocols.
package transcript

import (
	"crypto/sha256"
	"math/big"

	"github.com/takakv/zkpay/curve"
)

// ChallengeH2 derives a scalar challenge from two points: SHA-256 of their
// compressed encodings, reduced modulo the group order.
func ChallengeH2(p, q curve.Point) curve.Scalar {
	h := sha256.New()
	h.Write(p.Bytes())
	h.Write(q.Bytes())
	return reduce(h.Sum(nil))
}

// ChallengeHD derives a scalar challenge by hashing arbitrary domain data
// followed by the compressed encodings of any number of points, reduced
// modulo the group order.
func ChallengeHD(data []byte, points ...curve.Point) curve.Scalar {
	h := sha256.New()
	h.Write(data)
	for _, p := range points {
		h.Write(p.Bytes())
	}
	return reduce(h.Sum(nil))
}

func reduce(digest []byte) curve.Scalar {
	return curve.ScalarFromBigInt(new(big.Int).SetBytes(digest))
}
