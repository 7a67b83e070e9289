package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestJulianEncode(t *testing.T) {
	out, err := run(t, "julian", "encode", "2025-08-09")
	require.NoError(t, err)
	assert.Equal(t, "22125\n", out)

	_, err = run(t, "julian", "encode", "09/08/2025")
	assert.Error(t, err)
}

func TestJulianDecode(t *testing.T) {
	out, err := run(t, "julian", "decode", "00125")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01 (January 1, 2025)\n", out)

	out, err = run(t, "julian", "decode", "36625")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01 (January 1, 2026)\n", out)

	_, err = run(t, "julian", "decode", "--strict", "36625")
	assert.Error(t, err)

	_, err = run(t, "julian", "decode", "2025")
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	out, err := run(t, "compose", "--hex", "5", "A6", "B3", "DC", "22125")
	require.NoError(t, err)
	assert.Equal(t, "5A6B3DC22125\n354136423344433232313235\n", out)

	out, err = run(t, "compose", "Steel", "LOT1", "U1", "AB", "22125")
	require.NoError(t, err)
	assert.Equal(t, "SteelLOT1U1A\n", out)

	_, err = run(t, "compose", "5", "A6", "B3", "DC", "2212")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rfidash dev\n", out)
}
