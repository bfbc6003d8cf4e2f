package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCoordinates(t *testing.T) {
	c := &Clinic{Location: Location{Latitude: 30.2672, Longitude: -97.7431}}
	assert.True(t, c.HasCoordinates())

	c = &Clinic{}
	assert.False(t, c.HasCoordinates())
}

func TestRecordSearchTerm_EvictsOldest(t *testing.T) {
	var meta TrafficMeta
	for i := 0; i < 25; i++ {
		meta.RecordSearchTerm(fmt.Sprintf("term-%d", i))
	}

	assert.Len(t, meta.TopSearchTerms, 20)
	// Oldest five were evicted, newest retained in order.
	assert.Equal(t, "term-5", meta.TopSearchTerms[0])
	assert.Equal(t, "term-24", meta.TopSearchTerms[19])
}

func TestRecordSearchTerm_IgnoresEmpty(t *testing.T) {
	var meta TrafficMeta
	meta.RecordSearchTerm("")
	assert.Empty(t, meta.TopSearchTerms)
}
