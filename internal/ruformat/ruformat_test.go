package ruformat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlural(t *testing.T) {
	testCases := []struct {
		n        int
		expected string
	}{
		{0, "0 лет"},
		{1, "1 год"},
		{2, "2 года"},
		{4, "4 года"},
		{5, "5 лет"},
		{11, "11 лет"},
		{14, "14 лет"},
		{21, "21 год"},
		{22, "22 года"},
		{111, "111 лет"},
		{101, "101 год"},
		{-2, "-2 года"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Plural(tc.n, "год", "года", "лет"), "n=%d", tc.n)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name     string
		ago      time.Duration
		tzOffset int
		expected string
	}{
		{name: "future", ago: -time.Minute, expected: "в будущем"},
		{name: "just now", ago: 3 * time.Second, expected: "только что"},
		{name: "seconds", ago: 42 * time.Second, expected: "42 секунды назад"},
		{name: "minute with seconds", ago: 90 * time.Second, expected: "1 минуту 30 секунд назад"},
		{name: "whole minutes", ago: 5 * time.Minute, expected: "5 минут назад"},
		{name: "hour with minutes", ago: time.Hour + 2*time.Minute + 5*time.Second, expected: "1 час 2 минуты назад"},
		{name: "days", ago: 3 * 24 * time.Hour, expected: "3 дня назад"},
		{name: "weeks", ago: 14 * 24 * time.Hour, expected: "2 недели назад"},
		{name: "years", ago: 2 * 366 * 24 * time.Hour, expected: "2 года назад"},
		{name: "offset shifts into future", ago: 30 * time.Minute, tzOffset: 1, expected: "в будущем"},
		{name: "offset subtracts hours", ago: 3 * time.Hour, tzOffset: 1, expected: "2 часа назад"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RelativeTime(now.Add(-tc.ago), tc.tzOffset, now))
		})
	}
}

func TestRelativeUnix(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, "1 день назад", RelativeUnix(1_700_000_000-86_400, 0, now))
}
