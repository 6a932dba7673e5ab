package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	testCases := []struct {
		duration time.Duration
		want     Severity
	}{
		{duration: 5 * time.Minute, want: SeverityMinor},
		{duration: 59 * time.Minute, want: SeverityMinor},
		{duration: time.Hour, want: SeverityMajor},
		{duration: 23 * time.Hour, want: SeverityMajor},
		{duration: 24 * time.Hour, want: SeverityCritical},
		{duration: 72 * time.Hour, want: SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.duration.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(tc.duration))
		})
	}
}

func TestMethod_IsValid(t *testing.T) {
	assert.True(t, MethodOHLCV.IsValid())
	assert.True(t, MethodVWAP.IsValid())
	assert.False(t, Method("twap").IsValid())
}
