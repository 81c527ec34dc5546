// core/ssa/persist.go
package ssa

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var magic = [8]byte{'H', 'L', 'X', 'S', 'S', 'A', '0', '1'}

// ErrIndexMismatch is returned by Load when the stored magic, sentinel, or
// reference digest does not match what the caller expects.
var ErrIndexMismatch = errors.New("ssa: persisted index does not match reference")

// Sentinel is the terminator byte a concatenated reference must end with;
// it is recorded in the persisted header purely for a sanity check on Load.
const Sentinel byte = 0

// Save writes s to w in the little-endian layout:
//
//	magic    : 8 bytes = "HLXSSA01"
//	k        : u32
//	n        : u64
//	sentinel : u8; pad 3 bytes
//	digest   : 32 bytes (SHA-256 of the concatenated reference)
//	positions: u64 x len(Positions) when large, else u32 x len(Positions)
//	lcp      : u32 x len(LCP)
func (s *SSA) Save(w io.Writer, large bool) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	digest := sha256.Sum256(s.t)
	header := make([]byte, 4+8+1+3+32)
	binary.LittleEndian.PutUint32(header[0:4], uint32(s.K))
	binary.LittleEndian.PutUint64(header[4:12], uint64(s.N))
	header[12] = Sentinel
	copy(header[16:48], digest[:])
	if _, err := w.Write(header); err != nil {
		return err
	}

	if large {
		buf := make([]byte, 8*len(s.Positions))
		for i, p := range s.Positions {
			binary.LittleEndian.PutUint64(buf[i*8:], uint64(p))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	} else {
		buf := make([]byte, 4*len(s.Positions))
		for i, p := range s.Positions {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(p))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	lcpBuf := make([]byte, 4*len(s.LCP))
	for i, l := range s.LCP {
		binary.LittleEndian.PutUint32(lcpBuf[i*4:], uint32(l))
	}
	_, err := w.Write(lcpBuf)
	return err
}

// Load reads a persisted SSA from r and validates it against t, the
// concatenated reference the caller intends to use it with. large must
// match whatever was passed to Save: the layout carries no flag of its
// own recording whether positions were written as u32 or u64, so the
// caller (which knows its own -large setting) supplies it. Load fails
// with ErrIndexMismatch if the magic, sentinel, reference length, or
// digest of t disagree with the header.
func Load(r io.Reader, t []byte, large bool) (*SSA, error) {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("ssa: read magic: %w", err)
	}
	if gotMagic != magic {
		return nil, ErrIndexMismatch
	}

	header := make([]byte, 4+8+1+3+32)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("ssa: read header: %w", err)
	}
	k := int(binary.LittleEndian.Uint32(header[0:4]))
	n := int(binary.LittleEndian.Uint64(header[4:12]))
	sentinel := header[12]
	digest := header[16:48]

	if sentinel != Sentinel {
		return nil, ErrIndexMismatch
	}
	if n != len(t) {
		return nil, ErrIndexMismatch
	}
	want := sha256.Sum256(t)
	if !bytes.Equal(digest, want[:]) {
		return nil, ErrIndexMismatch
	}

	count := (n + k - 1) / k

	positions := make([]int32, count)
	if large {
		buf := make([]byte, 8*count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("ssa: read positions: %w", err)
		}
		for i := 0; i < count; i++ {
			positions[i] = int32(binary.LittleEndian.Uint64(buf[i*8:]))
		}
	} else {
		buf := make([]byte, 4*count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("ssa: read positions: %w", err)
		}
		for i := 0; i < count; i++ {
			positions[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	}

	lcp := make([]int32, count)
	lcpBuf := make([]byte, 4*count)
	if _, err := io.ReadFull(r, lcpBuf); err != nil {
		return nil, fmt.Errorf("ssa: read lcp: %w", err)
	}
	for i := 0; i < count; i++ {
		lcp[i] = int32(binary.LittleEndian.Uint32(lcpBuf[i*4:]))
	}

	return &SSA{K: k, N: n, Positions: positions, LCP: lcp, t: t}, nil
}
