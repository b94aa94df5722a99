package tform

import "math"

// Vec3 is a translation in ℝ³.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) lerp(o Vec3, alpha float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*alpha,
		Y: v.Y + (o.Y-v.Y)*alpha,
		Z: v.Z + (o.Z-v.Z)*alpha,
	}
}

// Quaternion is a rotation in unit-quaternion form (x, y, z, w). Stored
// normalized; see [Quaternion.Normalized] and the renormalization-vs-reject
// tolerance policy in [BufferTree.Update].
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion is the rotation that leaves every vector unchanged.
var IdentityQuaternion = Quaternion{W: 1}

func (q Quaternion) norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns q scaled to unit norm.
func (q Quaternion) Normalized() Quaternion {
	n := q.norm()
	if n == 0 {
		return IdentityQuaternion
	}
	inv := 1 / n
	return Quaternion{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

func (q Quaternion) neg() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, -q.W}
}

// conjugate is the inverse rotation for a unit quaternion.
func (q Quaternion) conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quaternion) dot(o Quaternion) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// mul computes the Hamilton product q*o, i.e. the rotation that applies o
// first, then q.
func (q Quaternion) mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// rotate applies q to v, assuming q is unit-norm.
func (q Quaternion) rotate(v Vec3) Vec3 {
	p := Quaternion{v.X, v.Y, v.Z, 0}
	r := q.mul(p).mul(q.conjugate())
	return Vec3{r.X, r.Y, r.Z}
}

// slerp spherically interpolates between q and o at alpha ∈ [0,1], taking
// the shorter arc: if dot(q, o) < 0, o is negated first since a unit
// quaternion and its negation represent the same rotation.
func slerp(q, o Quaternion, alpha float64) Quaternion {
	d := q.dot(o)
	if d < 0 {
		o = o.neg()
		d = -d
	}

	const closeThreshold = 1 - 1e-9
	if d > closeThreshold {
		// Nearly parallel: linear interpolation avoids a division by
		// a near-zero sine below.
		return Quaternion{
			X: q.X + (o.X-q.X)*alpha,
			Y: q.Y + (o.Y-q.Y)*alpha,
			Z: q.Z + (o.Z-q.Z)*alpha,
			W: q.W + (o.W-q.W)*alpha,
		}.Normalized()
	}

	theta0 := math.Acos(d)
	sinTheta0 := math.Sin(theta0)
	theta := theta0 * alpha

	s0 := math.Cos(theta) - d*math.Sin(theta)/sinTheta0
	s1 := math.Sin(theta) / sinTheta0

	return Quaternion{
		X: q.X*s0 + o.X*s1,
		Y: q.Y*s0 + o.Y*s1,
		Z: q.Z*s0 + o.Z*s1,
		W: q.W*s0 + o.W*s1,
	}.Normalized()
}

// Isometry is a rigid-body transform: a rotation followed by a translation.
type Isometry struct {
	Translation Vec3
	Rotation    Quaternion
}

// IdentityIsometry is the isometry that leaves every point unchanged.
var IdentityIsometry = Isometry{Rotation: IdentityQuaternion}

// inverse computes the isometry T⁻¹ such that combine(T.inverse(), T) is
// the identity: translation' = -q⁻¹·t·q; quaternion' = q⁻¹.
func (t Isometry) inverse() Isometry {
	qInv := t.Rotation.conjugate()
	return Isometry{
		Translation: qInv.rotate(t.Translation).neg(),
		Rotation:    qInv,
	}
}

// combine multiplies two isometries as homogeneous transforms, a*b: the
// rotation blocks multiply and b's translation is expressed through a's
// rotation before the translations add. A path's edges compose by
// folding combine left-to-right in path order.
func combine(a, b Isometry) Isometry {
	return Isometry{
		Translation: a.Translation.add(a.Rotation.rotate(b.Translation)),
		Rotation:    a.Rotation.mul(b.Rotation),
	}
}

// StampedIsometry is an [Isometry] tagged with a nanosecond timestamp.
type StampedIsometry struct {
	Translation Vec3
	Rotation    Quaternion
	Stamp       int64
}

func (s StampedIsometry) isometry() Isometry {
	return Isometry{Translation: s.Translation, Rotation: s.Rotation}
}

func stampedFrom(t Isometry, stamp int64) StampedIsometry {
	return StampedIsometry{Translation: t.Translation, Rotation: t.Rotation, Stamp: stamp}
}
