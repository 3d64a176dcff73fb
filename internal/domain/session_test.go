package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func coffee() *BreakType {
	return &BreakType{ID: "1", Name: "Coffee", DurationSec: 900}
}

func TestBeginBreak_SetsExpectedEnd(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)

	assert.Equal(t, SessionOngoing, s.Status)
	assert.Nil(t, s.EndTime)
	assert.Equal(t, t0.Add(900*time.Second), s.ExpectedEndTime)
	assert.Equal(t, int64(0), s.ViolationSec)
}

func TestEnd_OverAllotment_RecordsViolation(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)

	require.NoError(t, s.End(t0.Add(1000*time.Second), 900))

	assert.Equal(t, SessionEnded, s.Status)
	require.NotNil(t, s.EndTime)
	assert.Equal(t, int64(100), s.ViolationSec)
	assert.Equal(t, int64(1000), s.DurationSeconds())
}

func TestEnd_EarlyReturn_NoViolation(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)

	require.NoError(t, s.End(t0.Add(500*time.Second), 900))
	assert.Equal(t, int64(0), s.ViolationSec, "early return earns no credit")
}

func TestEnd_ExactlyOnTime_NoViolation(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)

	require.NoError(t, s.End(t0.Add(900*time.Second), 900))
	assert.Equal(t, int64(0), s.ViolationSec)
}

func TestEnd_TruncatesSubSecondElapsed(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)

	// 900.999s truncates to 900s, which is not over the allotment.
	require.NoError(t, s.End(t0.Add(900*time.Second+999*time.Millisecond), 900))
	assert.Equal(t, int64(0), s.ViolationSec)
}

func TestEnd_Twice_KeepsFirstEnd(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)
	require.NoError(t, s.End(t0.Add(1000*time.Second), 900))

	err := s.End(t0.Add(5000*time.Second), 900)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, t0.Add(1000*time.Second), *s.EndTime)
	assert.Equal(t, int64(100), s.ViolationSec)
}

func TestDurationSeconds_OngoingIsZero(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)
	assert.Equal(t, int64(0), s.DurationSeconds())
	assert.Equal(t, int64(60), s.ElapsedSeconds(t0.Add(time.Minute)))
}

func TestElapsedSeconds_ClockSkewNeverNegative(t *testing.T) {
	s := BeginBreak("s1", "7", coffee(), t0)
	assert.Equal(t, int64(0), s.ElapsedSeconds(t0.Add(-time.Minute)))
}

func TestViolationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  int64
		allotted int64
		want     int64
	}{
		{"over", 1000, 900, 100},
		{"under", 500, 900, 0},
		{"equal", 900, 900, 0},
		{"zero elapsed", 0, 900, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ViolationSeconds(tt.elapsed, tt.allotted))
		})
	}
}
