package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2022-12-22")
	require.NoError(t, err)
	assert.Equal(t, "2022-12-22", got)

	for _, bad := range []string{"", "22-12-2022", "2022-13-01", "2022-12-22T08:00:00"} {
		_, err := NormalizeDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizeTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "08:00:00"},
		{in: "08:00:00", want: "08:00:00"},
		{in: "23:59:59", want: "23:59:59"},
		{in: "8am", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(0, 30))
	assert.NoError(t, ValidatePage(100, 1))
	assert.Error(t, ValidatePage(-1, 30))
	assert.Error(t, ValidatePage(0, 0))
}
