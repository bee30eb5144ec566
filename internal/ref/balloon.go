// Package ref is the reference (pure Go, unvectorized) implementation
// of a Balloon-style memory-hard XOF built from a single primitive hash:
// seed a large buffer, mix it through a fixed number of rounds with a
// data-independent access pattern, then squeeze pseudorandom output
// blocks from it. It is the only api.Implementation registered by
// package balloon today; the split exists so a future
// hardware-accelerated implementation can be added beside it without
// touching any call site.
package ref

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/lostinentropy/zeppelin/internal/api"
	"github.com/lostinentropy/zeppelin/internal/mlock"
	"github.com/lostinentropy/zeppelin/internal/zeroize"
)

// Implementation is the generic, software-only Balloon backend.
type Implementation struct{}

// New returns the singleton generic Implementation.
func New() api.Implementation { return Implementation{} }

func (Implementation) Name() string { return "generic" }

func (Implementation) New(password, salt []byte, settings api.Settings) (api.XOF, error) {
	return newXOF(password, salt, settings)
}

// xof holds the exclusive Balloon buffer B plus the monotonic
// primitive-call counter ctr. Never copied; always constructed via
// newXOF and released via Close.
type xof struct {
	buf       []byte // flat buffer, sCost*api.BlockSize bytes, one cell per BlockSize
	sCost     uint32
	stepDelta uint32
	ctr       uint64
	pos       uint32 // extract cursor p
	leftover  [api.BlockSize]byte
	avail     int // unconsumed bytes at the tail of leftover
	locked    bool
	closed    bool
}

func newXOF(password, salt []byte, s api.Settings) (*xof, error) {
	if s.SCost == 0 || s.TCost == 0 || s.StepDelta == 0 {
		return nil, fmt.Errorf("ref: invalid settings %+v", s)
	}
	if len(salt) != api.SaltSize {
		return nil, fmt.Errorf("ref: salt must be %d bytes, got %d", api.SaltSize, len(salt))
	}

	x := &xof{
		buf:       make([]byte, uint64(s.SCost)*api.BlockSize),
		sCost:     s.SCost,
		stepDelta: s.StepDelta,
	}
	x.locked = mlock.TryLock(x.buf)

	x.seed(password, salt)
	x.mix(salt, s.TCost)

	return x, nil
}

func (x *xof) block(i uint32) []byte {
	off := uint64(i) * api.BlockSize
	return x.buf[off : off+api.BlockSize]
}

// hash computes H(ctr ‖ parts...) and advances ctr: the current
// counter value is consumed, then incremented, so no two calls ever
// hash under the same counter.
func (x *xof) hash(parts ...[]byte) [api.BlockSize]byte {
	var ctrBuf [8]byte
	binary.BigEndian.PutUint64(ctrBuf[:], x.ctr)
	x.ctr++

	h := sha3.New512()
	h.Write(ctrBuf[:])
	for _, p := range parts {
		h.Write(p)
	}

	var out [api.BlockSize]byte
	h.Sum(out[:0])
	return out
}

func (x *xof) seed(password, salt []byte) {
	b0 := x.hash(password, salt)
	copy(x.block(0), b0[:])

	for i := uint32(1); i < x.sCost; i++ {
		bi := x.hash(x.block(i - 1))
		copy(x.block(i), bi[:])
	}
}

func (x *xof) mix(salt []byte, tCost uint32) {
	var tBuf, iBuf, kBuf [8]byte

	for t := uint32(0); t < tCost; t++ {
		binary.BigEndian.PutUint64(tBuf[:], uint64(t))

		for i := uint32(0); i < x.sCost; i++ {
			binary.BigEndian.PutUint64(iBuf[:], uint64(i))

			prev := (i + x.sCost - 1) % x.sCost
			updated := x.hash(x.block(prev), x.block(i))
			copy(x.block(i), updated[:])

			for k := uint32(0); k < api.Deps; k++ {
				binary.BigEndian.PutUint64(kBuf[:], uint64(k))

				idxHash := x.hash(tBuf[:], iBuf[:], kBuf[:], salt)
				j := binary.BigEndian.Uint64(idxHash[:8]) % uint64(x.sCost)

				mixed := x.hash(x.block(i), x.block(uint32(j)))
				copy(x.block(i), mixed[:])
			}
		}
	}
}

func (x *xof) Squeeze(p []byte) error {
	if x.closed {
		return fmt.Errorf("ref: squeeze after close")
	}

	n := 0
	if x.avail > 0 {
		take := x.avail
		if take > len(p) {
			take = len(p)
		}
		copy(p, x.leftover[api.BlockSize-x.avail:])
		x.avail -= take
		n += take
	}

	for n < len(p) {
		block := x.outputBlock()
		remaining := len(p) - n
		if remaining >= api.BlockSize {
			copy(p[n:], block[:])
			n += api.BlockSize
			continue
		}

		copy(p[n:], block[:remaining])
		x.leftover = block
		x.avail = api.BlockSize - remaining
		n += remaining
	}

	return nil
}

// outputBlock produces one 64-byte output block, folding the current
// cell through stepDelta rounds of hashing against its neighbors and
// writing the result back into the buffer before returning it — output
// and internal state update together, so no block is ever squeezed
// twice.
func (x *xof) outputBlock() [api.BlockSize]byte {
	var cur [api.BlockSize]byte
	copy(cur[:], x.block(x.pos))

	for d := uint32(0); d < x.stepDelta; d++ {
		idx := (x.pos + d) % x.sCost
		cur = x.hash(cur[:], x.block(idx))
	}

	copy(x.block(x.pos), cur[:])
	x.pos = (x.pos + 1) % x.sCost
	return cur
}

func (x *xof) Close() {
	if x.closed {
		return
	}
	if x.locked {
		mlock.Unlock(x.buf)
	}
	zeroize.Bytes(x.buf)
	zeroize.Bytes(x.leftover[:])
	x.ctr = 0
	x.closed = true
}
