package utilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "50ms", want: 50 * time.Millisecond},
		{in: " 1m30s ", want: 90 * time.Second},
		{in: "10", want: 10 * time.Second},
		{in: "-5", want: -5 * time.Second},
		{in: "", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrDefault(t *testing.T) {
	got, err := ParseOrDefault("  ", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, got)

	_, err = ParseOrDefault("x", time.Second)
	assert.Error(t, err)
}
