package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError_KnownPatterns(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{errors.New("table \"Clients\" not configured"), "CFG001"},
		{errors.New("insufficient data to create client"), "VAL001"},
		{errors.New("ClientRowId required"), "VAL002"},
		{ErrLockUnavailable, "LOCK001"},
		{errors.New("unknown action: frobnicate"), "ACT001"},
		{errors.New("dial tcp: connection refused"), "DB001"},
		{errors.New("context canceled"), "REQ001"},
		{errors.New("something never seen before"), "ERR000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, MapError(tc.err).Code, "error %q", tc.err)
	}
}

func TestMapError_NilError(t *testing.T) {
	assert.Equal(t, UserMessage{}, MapError(nil))
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrLockUnavailable)
	assert.Contains(t, got, "Another save is in progress")
	assert.Contains(t, got, "LOCK001")
}

func TestIsUserFacing(t *testing.T) {
	assert.True(t, IsUserFacing(ErrLockUnavailable))
	assert.False(t, IsUserFacing(errors.New("segfault in the flux capacitor")))
	assert.False(t, IsUserFacing(nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(validationErr("nope")))
	assert.False(t, IsValidation(errors.New("nope")))
	assert.False(t, IsValidation(nil))
}
