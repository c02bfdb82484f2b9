package elkrem

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

/* Serialization and Deserialization methods for the Elkrem structs.
Receivers are variable length, with 41 bytes for each stored hash. Receivers
are prepended with the total number of hashes as a single byte, so at most
255 hashes fit and the total max size is 255*41 + 1 bytes.
*/

const nodeSize = 1 + 8 + chainhash.HashSize

// ToBytes turns the ElkremReceiver into a bunch of bytes in a slice.
// First the number of nodes (1 byte), then a series of 41 byte long
// serialized nodes, which are 1 byte height, 8 byte index, 32 byte hash.
func (e *ElkremReceiver) ToBytes() ([]byte, error) {
	numOfNodes := uint8(len(e.s))
	// 0 element receiver also OK. Just an empty slice.
	if len(e.s) == 0 {
		return nil, nil
	}
	if int(numOfNodes) != len(e.s) {
		return nil, fmt.Errorf("broken ElkremReceiver has %d nodes, "+
			"too many to fit a byte count", len(e.s))
	}

	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, numOfNodes); err != nil {
		return nil, err
	}
	for _, node := range e.s {
		if err := binary.Write(&buf, binary.BigEndian, node.h); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, node.i); err != nil {
			return nil, err
		}

		n, err := buf.Write(node.sha[:])
		if err != nil {
			return nil, err
		}
		if n != chainhash.HashSize {
			return nil, fmt.Errorf("%d byte hash, expect %d", n,
				chainhash.HashSize)
		}
	}
	if buf.Len() != int(numOfNodes)*nodeSize+1 {
		return nil, fmt.Errorf("somehow made wrong size buf, got %d expect %d",
			buf.Len(), int(numOfNodes)*nodeSize+1)
	}
	return buf.Bytes(), nil
}

// ElkremReceiverFromBytes parses the serialized form produced by ToBytes.
func ElkremReceiverFromBytes(b []byte) (*ElkremReceiver, error) {
	var e ElkremReceiver
	if len(b) == 0 { // empty receiver, which is OK
		return &e, nil
	}
	buf := bytes.NewBuffer(b)
	// read 1 byte number of nodes stored in receiver
	numOfNodes, err := buf.ReadByte()
	if err != nil {
		return nil, err
	}
	if numOfNodes < 1 {
		return nil, fmt.Errorf("read invalid number of nodes: %d", numOfNodes)
	}
	if buf.Len() != int(numOfNodes)*nodeSize {
		return nil, fmt.Errorf("remaining buf wrong size, expect %d got %d",
			int(numOfNodes)*nodeSize, buf.Len())
	}

	e.s = make([]ElkremNode, numOfNodes)

	for j := range e.s {
		// read 1 byte height
		if err := binary.Read(buf, binary.BigEndian, &e.s[j].h); err != nil {
			return nil, err
		}
		// read 8 byte index
		if err := binary.Read(buf, binary.BigEndian, &e.s[j].i); err != nil {
			return nil, err
		}
		// read 32 byte preimage
		copy(e.s[j].sha[:], buf.Next(chainhash.HashSize))

		// sanity checks, same spirit as the original elkrem tree:
		// heights and indexes must be in range.
		if e.s[j].h > maxHeight {
			return nil, fmt.Errorf("read invalid node height %d", e.s[j].h)
		}
		if e.s[j].i > maxIndex {
			return nil, fmt.Errorf("node claims index %d; %d max",
				e.s[j].i, maxIndex)
		}
	}
	return &e, nil
}

// ToBytes returns the root of the sender chain as a byte slice. This is
// provided so the root can be exported out of band; if a deterministic
// derivation procedure is used then serialization isn't strictly necessary,
// since the root can simply be re-derived on the fly.
func (e *ElkremSender) ToBytes() []byte {
	return e.root[:]
}
