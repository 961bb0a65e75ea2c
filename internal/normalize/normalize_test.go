package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted", "(716) 555-1234", "7165551234"},
		{"already digits", "7165551234", "7165551234"},
		{"letters stripped", "716-CALL-NOW", "716"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"international", "+1 (716) 555-1234 ext 99", "1716555123499"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.in))
		})
	}
}

func TestPhone_DigitsOnlyAndCapped(t *testing.T) {
	long := "123456789012345678901234567890"
	got := Phone(long)
	assert.LessOrEqual(t, len(got), MaxPhoneDigits)
	for _, r := range got {
		assert.True(t, r >= '0' && r <= '9', "non-digit %q in output", r)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "test@example.org", Email("  Test@Example.org "))
	assert.Equal(t, "", Email("   "))
}

func TestEmail_Idempotent(t *testing.T) {
	for _, in := range []string{"  Test@Example.org ", "USER@HOST", "", "a@b.c"} {
		once := Email(in)
		assert.Equal(t, once, Email(once))
	}
}

func TestBool(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "Yes", "y", "1", "on", " ON "} {
		assert.True(t, Bool(truthy), "Bool(%q)", truthy)
	}
	for _, falsy := range []string{"", "false", "no", "0", "off", "2", "maybe"} {
		assert.False(t, Bool(falsy), "Bool(%q)", falsy)
	}
}

func TestServiceDate(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

	got, ok := ServiceDate("2025-08-25", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), got)

	got, ok = ServiceDate("25/08/2025", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), got)

	// Unparseable input falls back to now.
	got, ok = ServiceDate("next tuesday", now)
	assert.False(t, ok)
	assert.Equal(t, now, got)

	got, ok = ServiceDate("", now)
	assert.False(t, ok)
	assert.Equal(t, now, got)
}

func TestState(t *testing.T) {
	assert.Equal(t, "NY", State(" ny "))
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "TRUE", FormatBool(true))
	assert.Equal(t, "FALSE", FormatBool(false))
}
