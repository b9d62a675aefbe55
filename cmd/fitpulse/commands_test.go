package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeight(t *testing.T) {
	kg, err := parseWeight("82.4")
	require.NoError(t, err)
	assert.Equal(t, 82.4, kg)

	kg, err = parseWeight(" 70 ")
	require.NoError(t, err)
	assert.Equal(t, 70.0, kg)
}

func TestParseWeight_RejectsMalformedInput(t *testing.T) {
	// Trailing garbage must not silently parse as a prefix number.
	for _, arg := range []string{"82.4abc", "abc", "", "NaN", "Inf", "8,4"} {
		_, err := parseWeight(arg)
		assert.Error(t, err, "arg %q", arg)
	}
}
