package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Forward is the local axis a look rotation maps onto the facing direction.
	Forward = mgl64.Vec3{0, 0, 1}

	worldUp    = mgl64.Vec3{0, 1, 0}
	verticalUp = mgl64.Vec3{0, 0, -1}
)

// verticalEps bounds how close to +-Y a facing may get before the reference up
// switches to verticalUp.
const verticalEps = 1e-6

// LookRotation returns the rotation taking Forward onto dir, with world +Y as the
// reference up. Near-vertical directions use -Z as the reference up instead, which keeps
// the basis well-conditioned. ok is false when dir has no direction, in which case the
// identity rotation is returned.
func LookRotation(dir mgl64.Vec3) (q mgl64.Quat, ok bool) {
	f := Normalize(dir)
	if IsZero(f) {
		return mgl64.QuatIdent(), false
	}

	up := worldUp
	if 1-math.Abs(f.Dot(up)) < verticalEps {
		up = verticalUp
	}
	right := Normalize(up.Cross(f))
	trueUp := f.Cross(right)

	m := mgl64.Mat3FromCols(right, trueUp, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), true
}
