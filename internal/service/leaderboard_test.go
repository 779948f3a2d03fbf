package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "any%", normalizeCategory("any"))
	assert.Equal(t, "any%", normalizeCategory("Any%"))
	assert.Equal(t, "inbounds", normalizeCategory("in_bounds"))
	assert.Equal(t, "inbounds", normalizeCategory("inbounds"))
	assert.Equal(t, "no major glitches", normalizeCategory("No_Major_Glitches"))
}

func TestNormalizeSegment(t *testing.T) {
	assert.Equal(t, "green dragon", normalizeSegment("Green_Dragon"))
	assert.Equal(t, "moria", normalizeSegment("moria"))
}
