// Package elkrem implements the per-commitment secret chain used to derive
// and verify revocation preimages for a channel's commitment transactions.
//
// The sender side holds a single 32-byte root seed and can derive the
// preimage for any index on demand. The receiver side only ever learns
// preimages that the remote peer has explicitly revoked, and keeps them
// around so that old revocation hashes can be checked against a
// freshly-supplied preimage.
package elkrem

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxHeight is the number of bits of index space the chain supports. 48
// bits is far beyond any channel's realistic HTLC count, and keeps a single
// index within a uint64 with room to spare.
const maxHeight = 48

// maxIndex is the largest index derivable from a given root.
const maxIndex = (uint64(1) << maxHeight) - 1

// ElkremSender derives preimage(n) for any n from a single root seed. The
// derivation is the BOLT-3 shachain construction: starting from the root,
// walk the bits of the index from most to least significant, flipping the
// corresponding bit and re-hashing whenever that bit is set. This makes
// preimage(n) independent of any other preimage, while still letting the
// node derive any of them from the one seed it actually stores.
type ElkremSender struct {
	root chainhash.Hash
}

// NewElkremSender returns a sender chain rooted at the given seed.
func NewElkremSender(root chainhash.Hash) *ElkremSender {
	return &ElkremSender{root: root}
}

// AtIndex returns preimage(index).
func (e *ElkremSender) AtIndex(index uint64) (*chainhash.Hash, error) {
	if index > maxIndex {
		return nil, fmt.Errorf("elkrem: index %d exceeds max %d", index,
			maxIndex)
	}

	p := generateFromSeed([32]byte(e.root), index)
	h := chainhash.Hash(p)
	return &h, nil
}

// Hash returns the revocation hash committed to by a preimage:
// SHA256(preimage).
func Hash(preimage chainhash.Hash) chainhash.Hash {
	return chainhash.HashH(preimage[:])
}

func generateFromSeed(seed [32]byte, index uint64) [32]byte {
	p := seed
	for b := maxHeight - 1; b >= 0; b-- {
		if index&(uint64(1)<<uint(b)) == 0 {
			continue
		}

		byteIdx := b / 8
		bitIdx := uint(b % 8)
		p[byteIdx] ^= 1 << bitIdx
		p = sha256.Sum256(p[:])
	}
	return p
}

// ElkremNode is a single entry recorded by an ElkremReceiver: the preimage
// revealed for commitment index i, at tree height h (h is always maxHeight
// for this core, which never compresses the receiver's storage into
// interior tree nodes the way a full elkrem/shachain implementation would).
type ElkremNode struct {
	h   uint8
	i   uint64
	sha chainhash.Hash
}

// ElkremReceiver stores every preimage the remote peer has revoked to us,
// indexed by commitment number.
type ElkremReceiver struct {
	s []ElkremNode
}

// NewElkremReceiver returns an empty receiver.
func NewElkremReceiver() *ElkremReceiver {
	return &ElkremReceiver{}
}

// AddNext records preimage as the revocation for commitment index, after
// checking that it actually hashes to the expected revocation hash.
func (e *ElkremReceiver) AddNext(index uint64, preimage, expected chainhash.Hash) error {
	if Hash(preimage) != expected {
		return fmt.Errorf("elkrem: preimage at index %d does not hash "+
			"to the expected revocation commitment", index)
	}

	e.s = append(e.s, ElkremNode{h: maxHeight, i: index, sha: preimage})
	return nil
}

// AtIndex returns the previously-recorded preimage for index, if any.
func (e *ElkremReceiver) AtIndex(index uint64) (*chainhash.Hash, error) {
	for i := range e.s {
		if e.s[i].i == index {
			sha := e.s[i].sha
			return &sha, nil
		}
	}

	return nil, fmt.Errorf("elkrem: no preimage recorded for index %d",
		index)
}
