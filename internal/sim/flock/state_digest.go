package flock

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// stateDigest hashes the exact float bits of every agent in enumeration order, so two
// runs agree only when they are bit-identical.
func (s *Simulator) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	digestWriteU64(h, &tmp, uint64(len(s.agents)))
	for _, a := range s.agents {
		digestWriteU64(h, &tmp, uint64(len(a.id)))
		h.Write([]byte(a.id))
		digestWriteVec(h, &tmp, a.pos)
		digestWriteVec(h, &tmp, a.vel)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Digest is the state digest of the current agent set at the current tick.
func (s *Simulator) Digest() string {
	return s.stateDigest(s.tick.Load())
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteVec(h hashWriter, tmp *[8]byte, v mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		digestWriteU64(h, tmp, math.Float64bits(v[i]))
	}
}
