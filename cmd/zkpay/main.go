// Command zkpay is a runnable walkthrough of one transaction's lifecycle:
// deriving public parameters, assembling a ring-hidden, range-proved,
// Auditing-Party-recoverable transaction, verifying it, and finally
// recovering one output's value the way the Auditing Party would out of
// band. It exists to demonstrate the library, not as a wallet or node.
package main

import (
	"log/slog"
	"math/big"
	"os"
	"time"

	"github.com/takakv/zkpay/aprecover"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/tx"
)

// publicParameters is the set of values every party in the demo agrees on
// ahead of time, analogous to the teacher's PublicParameters struct.
type publicParameters struct {
	Bases *curve.Bases
	APKey curve.Point
}

func setup(mMax int) (publicParameters, curve.Scalar, error) {
	g0, err := curve.RandomPoint()
	if err != nil {
		return publicParameters{}, curve.Scalar{}, err
	}
	h0, err := curve.RandomPoint()
	if err != nil {
		return publicParameters{}, curve.Scalar{}, err
	}
	bases, err := curve.DeriveBases(g0, h0, mMax)
	if err != nil {
		return publicParameters{}, curve.Scalar{}, err
	}

	apPrivateKey, err := curve.RandomScalar()
	if err != nil {
		return publicParameters{}, curve.Scalar{}, err
	}
	apKey := curve.BaseG().ScalarMult(apPrivateKey)

	return publicParameters{Bases: bases, APKey: apKey}, apPrivateKey, nil
}

// spendableNote is a demo wallet entry: a one-time key pair the owner
// controls, and the value commitment it opens.
type spendableNote struct {
	candidate tx.InputCandidate
	blinding  curve.Scalar
}

func ownedNote(bases *curve.Bases, spendSecret curve.Scalar, value uint64) (spendableNote, error) {
	a, err := curve.RandomPoint()
	if err != nil {
		return spendableNote{}, err
	}
	b := a.ScalarMult(spendSecret)

	r, err := curve.RandomScalar()
	if err != nil {
		return spendableNote{}, err
	}
	commitment := bases.G0.ScalarMult(curve.ScalarU64(value)).Add(bases.H0.ScalarMult(r))

	return spendableNote{
		candidate: tx.InputCandidate{A: a, B: b, Commitment: commitment},
		blinding:  r,
	}, nil
}

func decoyNote(bases *curve.Bases) (tx.InputCandidate, error) {
	a, err := curve.RandomPoint()
	if err != nil {
		return tx.InputCandidate{}, err
	}
	b, err := curve.RandomPoint()
	if err != nil {
		return tx.InputCandidate{}, err
	}
	commitment, err := curve.RandomPoint()
	if err != nil {
		return tx.InputCandidate{}, err
	}
	return tx.InputCandidate{A: a, B: b, Commitment: commitment}, nil
}

func run(logger *slog.Logger) error {
	params, apPrivateKey, err := setup(2)
	if err != nil {
		return err
	}
	logger.Info("derived public parameters")

	spendSecret, err := curve.RandomScalar()
	if err != nil {
		return err
	}

	note, err := ownedNote(params.Bases, spendSecret, 25)
	if err != nil {
		return err
	}
	decoySet, err := decoyNote(params.Bases)
	if err != nil {
		return err
	}
	logger.Info("built a one-input ring", "decoys", 1)

	outPubKey, err := curve.RandomPoint()
	if err != nil {
		return err
	}

	start := time.Now()
	transaction, err := tx.CreateTransaction(
		params.Bases,
		[][]tx.InputCandidate{{note.candidate}, {decoySet}},
		0,
		[]curve.Scalar{note.blinding},
		[]*big.Int{big.NewInt(25)},
		[]curve.Point{outPubKey},
		spendSecret,
		params.APKey,
		nil,
		0,
	)
	if err != nil {
		return err
	}
	logger.Info("assembled transaction", "elapsed", time.Since(start))

	start = time.Now()
	ok := tx.VerifyTransaction(params.Bases, params.APKey, transaction)
	logger.Info("verified transaction", "ok", ok, "elapsed", time.Since(start))

	table := aprecover.NewTableWithBase(aprecover.DefaultN, curve.BaseL())
	for i, out := range transaction.Outputs {
		value, recovered := tx.RecoverOutputValue(table, out.Value, apPrivateKey)
		logger.Info("auditing party recovered output value", "output", i, "recovered", recovered, "value", value)
	}

	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("demo failed", "err", err)
		os.Exit(1)
	}
}
