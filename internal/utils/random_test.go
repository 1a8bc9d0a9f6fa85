package utils

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomChineseName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := GenerateRandomChineseName()
		n := utf8.RuneCountInString(name)
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 3)
	}
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+[0-9]{1,3}$`)
	for i := 0; i < 50; i++ {
		username := GenerateUsernameFromChineseName(GenerateRandomChineseName())
		assert.Regexp(t, pattern, username)
	}
}

func TestGenerateRandomDate(t *testing.T) {
	for i := 0; i < 20; i++ {
		date, err := GenerateRandomDate("2022-12-22", 7)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, date, "2022-12-22")
		assert.LessOrEqual(t, date, "2022-12-28")
	}

	date, err := GenerateRandomDate("2022-12-22", 0)
	require.NoError(t, err)
	assert.Equal(t, "2022-12-22", date)

	_, err = GenerateRandomDate("bad", 3)
	assert.Error(t, err)
}

func TestGenerateRandomShiftWindow(t *testing.T) {
	starts := make(map[string]bool)
	ends := make(map[string]bool)

	for slot := 0; slot < 6; slot++ {
		start, end := GenerateRandomShiftWindow(slot, 6)

		_, err := NormalizeTimeOfDay(start)
		require.NoError(t, err)
		_, err = NormalizeTimeOfDay(end)
		require.NoError(t, err)

		assert.False(t, starts[start])
		assert.False(t, ends[end])
		starts[start] = true
		ends[end] = true
	}
}
