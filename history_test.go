package tform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAtStamp(stamp int64) StampedIsometry {
	return StampedIsometry{Rotation: IdentityQuaternion, Stamp: stamp}
}

func TestTransformHistoryStaticOverwrite(t *testing.T) {
	h := newTransformHistory(Static, 0, 0, nil)
	h.insert(StampedIsometry{Translation: Vec3{X: 1}, Rotation: IdentityQuaternion, Stamp: 5})
	h.insert(StampedIsometry{Translation: Vec3{X: 2}, Rotation: IdentityQuaternion, Stamp: 9})

	latest, ok := h.latest()
	require.True(t, ok)
	assert.Equal(t, int64(9), latest.Stamp)
	assert.Equal(t, 1, h.count())
}

func TestTransformHistoryDynamicOrdering(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 0, nil)
	h.insert(sampleAtStamp(30))
	h.insert(sampleAtStamp(10))
	h.insert(sampleAtStamp(20))

	res := h.at(20)
	require.Equal(t, sampleExact, res.kind)
	assert.Equal(t, int64(20), res.s.Stamp)
}

func TestTransformHistoryDedup(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 0, nil)
	h.insert(StampedIsometry{Translation: Vec3{X: 1}, Rotation: IdentityQuaternion, Stamp: 10})
	h.insert(StampedIsometry{Translation: Vec3{X: 2}, Rotation: IdentityQuaternion, Stamp: 10})

	assert.Equal(t, 1, h.count())
	latest, ok := h.latest()
	require.True(t, ok)
	assert.Equal(t, 2.0, latest.Translation.X)
}

func TestTransformHistoryBracket(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 0, nil)
	h.insert(sampleAtStamp(0))
	h.insert(sampleAtStamp(1_000_000_000))

	res := h.at(250_000_000)
	require.Equal(t, sampleBracket, res.kind)
	assert.Equal(t, int64(0), res.a.Stamp)
	assert.Equal(t, int64(1_000_000_000), res.b.Stamp)
}

func TestTransformHistoryBeforeAfter(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 0, nil)
	h.insert(sampleAtStamp(10))
	h.insert(sampleAtStamp(20))

	assert.Equal(t, sampleBefore, h.at(5).kind)
	assert.Equal(t, sampleAfter, h.at(25).kind)
}

func TestTransformHistoryEmpty(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 0, nil)
	assert.Equal(t, sampleEmpty, h.at(0).kind)
	assert.True(t, h.empty())
}

// TestTransformHistoryAgeBound checks that inserting samples spanning
// more than Δ leaves only samples with stamp >= newest - Δ.
func TestTransformHistoryAgeBound(t *testing.T) {
	const delta = int64(1_000_000_000)
	trims := 0
	h := newTransformHistory(Dynamic, delta, 0, func() { trims++ })

	for stamp := int64(0); stamp <= 3_000_000_000; stamp += 500_000_000 {
		h.insert(sampleAtStamp(stamp))
	}

	oldest, newest, ok := h.bounds()
	require.True(t, ok)
	assert.Equal(t, int64(3_000_000_000), newest)
	assert.GreaterOrEqual(t, oldest, newest-delta)
	assert.Greater(t, trims, 0)
}

func TestTransformHistoryCountBound(t *testing.T) {
	h := newTransformHistory(Dynamic, 0, 3, nil)
	for stamp := int64(0); stamp < 10; stamp++ {
		h.insert(sampleAtStamp(stamp))
	}
	assert.Equal(t, 3, h.count())
	latest, ok := h.latest()
	require.True(t, ok)
	assert.Equal(t, int64(9), latest.Stamp)
}
