package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"19.99", 1999},
		{"5", 500},
		{"5.5", 550},
		{"0.019", 1},
		{"10.999", 1099},
		{".5", 50},
		{"1e2", 10000},
		{"-3.25", -325},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			got, err := ToCents(tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToCentsInvalid(t *testing.T) {
	for _, price := range []string{"", "abc", "1.2.3", "12.x", "1,50", "."} {
		t.Run(price, func(t *testing.T) {
			_, err := ToCents(price)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}
