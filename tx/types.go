// Package tx assembles and verifies transactions: a ring of candidate input
// sets hiding which one is actually spent, a balance proof that input value
// equals output value, an aggregated range proof that every output fits in
// 64 bits, an Auditing Party key declaration binding the transaction to the
// AP's recovery key, and per-output AP value declarations the AP can later
// decrypt offline with package aprecover.
package tx

import (
	"github.com/takakv/zkpay/bulletproofs"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/kyc"
	"github.com/takakv/zkpay/zkplmt"
)

// InputCandidate is one member of a ring: a one-time key pair (A, B = p*A)
// and the value commitment it owns.
type InputCandidate struct {
	A, B       curve.Point
	Commitment curve.Point
}

// ZSignature is a Schnorr signature over Z = z*H0, binding the transaction's
// balance nonce to the rest of the transaction without revealing z.
type ZSignature struct {
	S, H curve.Scalar
}

// Output is a transaction output: its value commitment, the recipient's
// one-time public key, and the AP value declaration that lets the Auditing
// Party later recover the committed value.
type Output struct {
	Commitment curve.Point
	OneTimeKey curve.Point
	Value      APValueDeclaration
}

// Transaction is a fully assembled, independently verifiable transaction.
type Transaction struct {
	InputSets  [][]InputCandidate
	KeyImages  []curve.Point
	Z          curve.Point
	Alpha      ZSignature
	Ring       zkplmt.Proof
	APKey      APKeyDeclaration
	Outputs    []Output
	RangeProof bulletproofs.RangeProof
	HasKYC     bool
	KYC        kyc.SpendingLimitProof
}
