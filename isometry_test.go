package tform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuaternionRotate(t *testing.T) {
	q := IdentityQuaternion
	v := Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, v, q.rotate(v))
}

func TestIsometryInverse(t *testing.T) {
	iso := Isometry{Translation: Vec3{X: 1, Y: 2, Z: 3}, Rotation: IdentityQuaternion}
	inv := iso.inverse()
	roundTrip := combine(iso, inv)
	assert.InDelta(t, 0, roundTrip.Translation.X, 1e-9)
	assert.InDelta(t, 0, roundTrip.Translation.Y, 1e-9)
	assert.InDelta(t, 0, roundTrip.Translation.Z, 1e-9)
	assert.InDelta(t, 1, roundTrip.Rotation.W, 1e-9)
}

// TestCombineChain checks that a->b t=[1,0,0] composed with b->c
// t=[0,1,0] yields a->c t=[1,1,0].
func TestCombineChain(t *testing.T) {
	ab := Isometry{Translation: Vec3{X: 1}, Rotation: IdentityQuaternion}
	bc := Isometry{Translation: Vec3{Y: 1}, Rotation: IdentityQuaternion}
	ac := combine(ab, bc)
	require.Equal(t, Vec3{X: 1, Y: 1}, ac.Translation)
}

func TestSlerpShorterArc(t *testing.T) {
	q := Quaternion{W: 1}
	o := Quaternion{W: -1}
	mid := slerp(q, o, 0.5)
	assert.InDelta(t, 1, math.Abs(mid.W), 1e-9)
	assert.InDelta(t, 0, mid.X, 1e-9)
	assert.InDelta(t, 0, mid.Y, 1e-9)
	assert.InDelta(t, 0, mid.Z, 1e-9)
}

func TestSlerpEndpoints(t *testing.T) {
	q := Quaternion{X: 0, Y: 0, Z: 0.70710678, W: 0.70710678}.Normalized()
	o := IdentityQuaternion

	start := slerp(q, o, 0)
	end := slerp(q, o, 1)

	assert.InDelta(t, q.X, start.X, 1e-6)
	assert.InDelta(t, q.W, start.W, 1e-6)
	assert.InDelta(t, o.X, end.X, 1e-6)
	assert.InDelta(t, o.W, end.W, 1e-6)
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{X: 0}
	b := Vec3{X: 10}
	got := a.lerp(b, 0.25)
	assert.Equal(t, Vec3{X: 2.5}, got)
}
