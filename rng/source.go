package rng

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Source draws one priority value per (vertex, round) pair. A Source
// must be deterministic: replaying the same (vertex, round) yields the
// same value, regardless of call order or partition layout.
type Source interface {
	Next(vertex uint, round uint) uint256.Int
}

// KeccakSource derives priorities by hashing (seed, vertex, round).
// It is stateless, so concurrent use from all partition workers is safe
// and every partition layout observes identical draws.
type KeccakSource struct {
	seed [8]byte
}

func NewKeccakSource(seed uint64) *KeccakSource {
	s := &KeccakSource{}
	binary.BigEndian.PutUint64(s.seed[:], seed)
	return s
}

func (s *KeccakSource) Next(vertex uint, round uint) uint256.Int {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(vertex))
	binary.BigEndian.PutUint64(buf[8:16], uint64(round))
	digest := crypto.Keccak256(s.seed[:], buf[:])
	var value uint256.Int
	value.SetBytes(digest)
	return value
}
