package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, time.March, 18, 15, 30, 0, 0, loc)

	tests := []struct {
		period string
		want   time.Time
	}{
		{"", time.Date(2026, time.March, 18, 0, 0, 0, 0, loc)},
		{PeriodToday, time.Date(2026, time.March, 18, 0, 0, 0, 0, loc)},
		{PeriodWeek, time.Date(2026, time.March, 11, 15, 30, 0, 0, loc)},
		{PeriodMonth, time.Date(2026, time.March, 1, 0, 0, 0, 0, loc)},
		{PeriodYear, time.Date(2026, time.January, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run("period="+tt.period, func(t *testing.T) {
			got, ok, err := PeriodStart(tt.period, now)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, ok, err := PeriodStart(PeriodAll, now)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = PeriodStart("fortnight", now)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestReceiptNumber(t *testing.T) {
	assert.Equal(t, "RCP-2026-000001", ReceiptNumber(2026, 1))
	assert.Equal(t, "RCP-2026-123456", ReceiptNumber(2026, 123456))
	assert.Regexp(t, `^RCP-\d{4}-\d{6}$`, ReceiptNumber(2025, 42))
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("flush", cause)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "flush", se.Op)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, Storage("noop", nil))
}
