package service

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestFairnessDeterministic(t *testing.T) {
	f := NewFairness("test-seed")

	point1, hash1 := f.CrashPointFor(42)
	point2, hash2 := f.CrashPointFor(42)

	if point1 != point2 {
		t.Fatalf("same nonce gave different crash points: %v vs %v", point1, point2)
	}
	if hash1 != hash2 {
		t.Fatalf("same nonce gave different hashes: %s vs %s", hash1, hash2)
	}
}

func TestFairnessBounds(t *testing.T) {
	f := NewFairness("bounds-seed")

	for nonce := int64(1); nonce <= 1000; nonce++ {
		point, _ := f.CrashPointFor(nonce)
		if point < 1.0 {
			t.Fatalf("nonce %d: crash point %v below 1.00", nonce, point)
		}
		if point > 1000.0 {
			t.Fatalf("nonce %d: crash point %v above 1000.00", nonce, point)
		}
	}
}

func TestFairnessVerifyMatches(t *testing.T) {
	f := NewFairness("verify-seed")

	want, wantHash := f.CrashPointFor(7)
	got, gotHash := VerifyCrashPoint(f.ServerSeed(), 7)

	if got != want {
		t.Fatalf("verify gave %v, round gave %v", got, want)
	}
	if gotHash != wantHash {
		t.Fatalf("verify hash %s, round hash %s", gotHash, wantHash)
	}
}

func TestFairnessCommitmentHash(t *testing.T) {
	f := NewFairness("commit-seed")

	sum := sha256.Sum256([]byte("commit-seed"))
	want := hex.EncodeToString(sum[:])

	if got := f.CommitmentHash(); got != want {
		t.Fatalf("commitment hash %s, want %s", got, want)
	}
}

func TestFairnessRandomSeed(t *testing.T) {
	f1 := NewFairness("")
	f2 := NewFairness("")

	if f1.ServerSeed() == f2.ServerSeed() {
		t.Fatal("two empty-seed generators share a seed")
	}
	if len(f1.ServerSeed()) != 64 {
		t.Fatalf("random seed length %d, want 64 hex chars", len(f1.ServerSeed()))
	}
}

func TestFairnessNoncesDiffer(t *testing.T) {
	f := NewFairness("differ-seed")

	_, hash1 := f.CrashPointFor(1)
	_, hash2 := f.CrashPointFor(2)

	if hash1 == hash2 {
		t.Fatal("different nonces produced the same round hash")
	}
}
