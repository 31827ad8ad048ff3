package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0190cafe-1234-7abc-9def-0123456789ab"))
	assert.True(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.True(t, IsValidUUID("6BA7B810-9DAD-11D1-80B4-00C04FD430C8"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("0190cafe12347abc9def0123456789ab"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-01-31")
	assert.True(t, ok)

	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)

	_, ok = IsValidDate("31/01/2025")
	assert.False(t, ok)

	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "12:00", "23:59"}
	for _, v := range valid {
		assert.True(t, IsValidClock(v), v)
	}

	invalid := []string{"24:00", "9:30", "09:60", "09:30:00", "", "0930"}
	for _, v := range invalid {
		assert.False(t, IsValidClock(v), v)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"to_pay", "paid", "cancelled"}
	assert.True(t, IsInSlice("paid", slice))
	assert.False(t, IsInSlice("Paid", slice))
	assert.False(t, IsInSlice("", slice))
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2024-01-15T10:30:00Z")
	assert.True(t, ok)

	_, ok = IsValidDateTime("2024-01-15T10:30:00+07:00")
	assert.True(t, ok)

	_, ok = IsValidDateTime("2024-01-15 10:30:00")
	assert.False(t, ok)
}
