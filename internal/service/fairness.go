package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
)

const (
	houseEdge     = 0.01
	minCrashPoint = 1.0
	maxCrashPoint = 1000.0
)

// Fairness derives crash points from an HMAC-SHA256 chain over a server seed.
// The commitment hash is published before a round starts; revealing the seed
// afterwards lets players recompute every crash point.
type Fairness struct {
	serverSeed string
}

// NewFairness builds a generator from an existing seed, or a fresh random one
// when seed is empty.
func NewFairness(seed string) *Fairness {
	if seed == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic("fairness: cannot read random seed: " + err.Error())
		}
		seed = hex.EncodeToString(buf)
	}
	return &Fairness{serverSeed: seed}
}

// CommitmentHash is the SHA-256 of the server seed, safe to publish up front.
func (f *Fairness) CommitmentHash() string {
	sum := sha256.Sum256([]byte(f.serverSeed))
	return hex.EncodeToString(sum[:])
}

// ServerSeed reveals the seed. Only call this when rotating to a new seed.
func (f *Fairness) ServerSeed() string {
	return f.serverSeed
}

// CrashPointFor returns the crash multiplier and round hash for a nonce.
// The same seed and nonce always yield the same result.
func (f *Fairness) CrashPointFor(nonce int64) (float64, string) {
	roundHash := f.roundHash(nonce)
	return crashPointFromHash(roundHash), roundHash
}

func (f *Fairness) roundHash(nonce int64) string {
	mac := hmac.New(sha256.New, []byte(f.serverSeed))
	fmt.Fprintf(mac, "round:%d", nonce)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCrashPoint recomputes a round's crash point from a revealed seed so
// players can check the round was not chosen adaptively. It returns the
// multiplier and the round hash that must match the published commitment
// chain.
func VerifyCrashPoint(serverSeed string, nonce int64) (float64, string) {
	f := &Fairness{serverSeed: serverSeed}
	return f.CrashPointFor(nonce)
}

// crashPointFromHash maps the first 52 bits of the hash onto a multiplier
// with a 1% house edge, clamped to [1.00, 1000.00].
func crashPointFromHash(hash string) float64 {
	n := new(big.Int)
	n.SetString(hash[:13], 16)

	r := float64(n.Int64()) / math.Pow(2, 52)
	crash := math.Floor(100*(1-houseEdge)/(1-r)) / 100.0

	if crash < minCrashPoint {
		crash = minCrashPoint
	}
	if crash > maxCrashPoint {
		crash = maxCrashPoint
	}
	return crash
}
