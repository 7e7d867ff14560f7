package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Table(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-diameter", "1000", "-velocity", "20"}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "75085.87 Mt TNT")
	assert.Contains(t, out.String(), "29796 m")
	assert.Contains(t, out.String(), "750859 m")
}

func TestRun_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-diameter", "100", "-velocity", "17", "-angle", "45", "-material", "IRON", "-json"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var res result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.InDelta(t, 99.74, res.Display.EnergyMegatons, 1e-9)
	assert.Zero(t, res.Display.GlobalEffectRadiusMeters)
}

func TestRun_InvalidInput(t *testing.T) {
	cases := [][]string{
		{"-velocity", "20"},
		{"-diameter", "10", "-velocity", "20", "-angle", "0"},
		{"-diameter", "10", "-velocity", "20", "-material", "gold"},
		{"-bogus"},
	}
	for _, args := range cases {
		var out, errOut bytes.Buffer
		assert.Equal(t, 2, run(args, &out, &errOut), args)
		assert.Empty(t, out.String())
	}
}
