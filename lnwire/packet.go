package lnwire

// Shared element-at-a-time encode/decode helpers, in the spirit of the
// readElements/writeElements calling convention used throughout this
// package's message types: each Decode/Encode method hands a list of
// pointers (resp. values) to readElements/writeElements rather than
// hand-rolling field-by-field binary.Read/Write calls.

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// writeElements writes each element to w in order, returning the first
// error encountered.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := writeElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

// readElements reads each element from r in order, returning the first
// error encountered.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return binary.Write(w, binary.BigEndian, e)
	case uint16:
		return binary.Write(w, binary.BigEndian, e)
	case uint32:
		return binary.Write(w, binary.BigEndian, e)
	case uint64:
		return binary.Write(w, binary.BigEndian, e)
	case MilliSatoshi:
		return binary.Write(w, binary.BigEndian, uint64(e))
	case bool:
		var b uint8
		if e {
			b = 1
		}
		return binary.Write(w, binary.BigEndian, b)

	case chainhash.Hash:
		return writeSha256Hash(w, e)

	case *btcec.PublicKey:
		if e == nil {
			return fmt.Errorf("cannot write nil public key")
		}
		_, err := w.Write(e.SerializeCompressed())
		return err

	case Signature:
		return e.encode(w)

	case Locktime:
		return e.encode(w)

	case []byte:
		if err := binary.Write(w, binary.BigEndian, uint16(len(e))); err != nil {
			return err
		}
		_, err := w.Write(e)
		return err

	case string:
		if err := binary.Write(w, binary.BigEndian, uint16(len(e))); err != nil {
			return err
		}
		_, err := w.Write([]byte(e))
		return err

	default:
		return fmt.Errorf("unable to write unknown element type %T", e)
	}
}

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		return binary.Read(r, binary.BigEndian, e)
	case *uint16:
		return binary.Read(r, binary.BigEndian, e)
	case *uint32:
		return binary.Read(r, binary.BigEndian, e)
	case *uint64:
		return binary.Read(r, binary.BigEndian, e)
	case *MilliSatoshi:
		var v uint64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return err
		}
		*e = MilliSatoshi(v)
		return nil
	case *bool:
		var b uint8
		if err := binary.Read(r, binary.BigEndian, &b); err != nil {
			return err
		}
		*e = b != 0
		return nil

	case *chainhash.Hash:
		h, err := readSha256Hash(r)
		if err != nil {
			return err
		}
		*e = h
		return nil

	case **btcec.PublicKey:
		var buf [33]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		pub, err := btcec.ParsePubKey(buf[:])
		if err != nil {
			return err
		}
		*e = pub
		return nil

	case *Signature:
		return e.decode(r)

	case *Locktime:
		return e.decode(r)

	case *[]byte:
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		*e = buf
		return nil

	case *string:
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		*e = string(buf)
		return nil

	default:
		return fmt.Errorf("unable to read unknown element type %T", e)
	}
}

// writeSha256Hash writes a Sha256Hash wire value: four 64-bit limbs a,b,c,d
// whose little-endian byte reassembly is the 32-byte hash.
func writeSha256Hash(w io.Writer, h chainhash.Hash) error {
	limbs := [4]uint64{
		binary.LittleEndian.Uint64(h[0:8]),
		binary.LittleEndian.Uint64(h[8:16]),
		binary.LittleEndian.Uint64(h[16:24]),
		binary.LittleEndian.Uint64(h[24:32]),
	}
	for _, limb := range limbs {
		if err := binary.Write(w, binary.BigEndian, limb); err != nil {
			return err
		}
	}
	return nil
}

func readSha256Hash(r io.Reader) (chainhash.Hash, error) {
	var h chainhash.Hash
	var limbs [4]uint64
	for i := range limbs {
		if err := binary.Read(r, binary.BigEndian, &limbs[i]); err != nil {
			return h, err
		}
	}
	binary.LittleEndian.PutUint64(h[0:8], limbs[0])
	binary.LittleEndian.PutUint64(h[8:16], limbs[1])
	binary.LittleEndian.PutUint64(h[16:24], limbs[2])
	binary.LittleEndian.PutUint64(h[24:32], limbs[3])
	return h, nil
}
