package tform

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomUnitQuaternion(f *fuzz.Fuzzer) Quaternion {
	var q Quaternion
	f.Fuzz(&q.X)
	f.Fuzz(&q.Y)
	f.Fuzz(&q.Z)
	f.Fuzz(&q.W)
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		q.W = 1
	}
	return q.Normalized()
}

// TestFuzzLookupInversion exercises the inversion property over
// randomized translations and rotations.
func TestFuzzLookupInversion(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 1)

	for i := 0; i < 200; i++ {
		bt := New()

		var translation Vec3
		f.Fuzz(&translation.X)
		f.Fuzz(&translation.Y)
		f.Fuzz(&translation.Z)
		rotation := randomUnitQuaternion(f)

		require.NoError(t, bt.Update("a", "b", StampedIsometry{
			Translation: translation,
			Rotation:    rotation,
			Stamp:       0,
		}, Static))

		fwd, err := bt.LookupLatestTransform("a", "b")
		require.NoError(t, err)
		rev, err := bt.LookupLatestTransform("b", "a")
		require.NoError(t, err)

		want := fwd.isometry().inverse()
		assert.InDelta(t, want.Translation.X, rev.Translation.X, 1e-6)
		assert.InDelta(t, want.Translation.Y, rev.Translation.Y, 1e-6)
		assert.InDelta(t, want.Translation.Z, rev.Translation.Z, 1e-6)

		d := want.Rotation.dot(rev.Rotation)
		assert.InDelta(t, 1, d*d, 1e-6) // same rotation up to sign
	}
}

// TestFuzzHistoryBound exercises the age-retention bound over randomized
// stamp sequences: after enough dynamic updates spanning more than Δ,
// only samples newer than newest-Δ survive.
func TestFuzzHistoryBound(t *testing.T) {
	f := fuzz.New().NilChance(0)
	const delta = int64(1_000_000_000)

	for i := 0; i < 50; i++ {
		h := newTransformHistory(Dynamic, delta, 0, nil)

		var stamp int64
		for j := 0; j < 30; j++ {
			var step uint16
			f.Fuzz(&step)
			stamp += int64(step) + 1
			h.insert(StampedIsometry{Rotation: IdentityQuaternion, Stamp: stamp})
		}

		oldest, newest, ok := h.bounds()
		require.True(t, ok)
		assert.GreaterOrEqual(t, oldest, newest-delta)
	}
}

// TestFuzzUnknownFrameNamesAlwaysError feeds random frame names into
// lookups that were never registered, exercising the UnknownFrame path
// robustly against arbitrary strings.
func TestFuzzUnknownFrameNamesAlwaysError(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 20)
	bt := New()

	for i := 0; i < 50; i++ {
		var from, to string
		f.Fuzz(&from)
		f.Fuzz(&to)
		if from == to {
			continue
		}
		_, err := bt.LookupLatestTransform(from, to)
		assert.ErrorIs(t, err, ErrUnknownFrame)
	}
}
