package votecounter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashoveride1/blockchain/objectstore"
)

func TestBitsToDropBelowThresholdIsZero(t *testing.T) {
	assert.Equal(t, uint(0), BitsToDrop(0))
	assert.Equal(t, uint(0), BitsToDrop(1<<15-1))
}

func TestBitsToDropAboveThreshold(t *testing.T) {
	// msb(1<<20) = 20; bits_to_drop = 20-15 = 5.
	assert.Equal(t, uint(5), BitsToDrop(1<<20))
}

func TestCompressWeightNeverZero(t *testing.T) {
	assert.Equal(t, uint16(1), CompressWeight(0, 0))
	assert.Equal(t, uint16(1), CompressWeight(3, 4))
}

func TestCounterFoldsDuplicateAccounts(t *testing.T) {
	c := New()
	acct := objectstore.ID{Instance: 1}
	c.Add(acct, 100)
	c.Add(acct, 50)
	auth := c.Finalize()
	if assert.Len(t, auth.Entries, 1) {
		assert.Equal(t, uint16(150), auth.Entries[0].Weight)
	}
}

func TestLegacyBuildThreshold(t *testing.T) {
	w1, w2 := objectstore.ID{Instance: 1}, objectstore.ID{Instance: 2}
	votes := map[objectstore.ID]uint64{w1: 10, w2: 20}
	auth := LegacyBuild([]objectstore.ID{w1, w2}, func(id objectstore.ID) uint64 { return votes[id] })
	assert.Equal(t, uint32(16), auth.Threshold) // (10+20)/2+1
}
