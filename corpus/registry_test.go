package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRegistryFromRecords(t *testing.T) {
	records := []Record{
		{ID: "a", LineNumbers: []int{30, 408}},
		{ID: "b", LineNumbers: []int{30, 1305}},
	}
	reg := NewLineRegistry(records, nil)

	assert.True(t, reg.IsValidLine(30))
	assert.True(t, reg.IsValidLine(408))
	assert.False(t, reg.IsValidLine(1305), "line identifiers above 999 are out of range")
	assert.False(t, reg.IsValidLine(40))
	assert.Equal(t, 2, reg.Size())
}

func TestLineRegistryExtraLines(t *testing.T) {
	reg := NewLineRegistry(nil, []int{71, 0, -5, 1000})

	assert.True(t, reg.IsValidLine(71))
	assert.False(t, reg.IsValidLine(0))
	assert.False(t, reg.IsValidLine(1000))
	assert.Equal(t, 1, reg.Size())
}
