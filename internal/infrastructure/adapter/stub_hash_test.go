package adapter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFromHash(t *testing.T) {
	tests := []struct {
		name string
		hash int32
		want int
	}{
		{name: "zero", hash: 0, want: 300},
		{name: "positive", hash: 1999, want: 648},
		{name: "negative mirrors positive", hash: -1999, want: 648},
		{name: "max int32", hash: math.MaxInt32, want: 947},
		{name: "min int32 stays negative", hash: math.MinInt32, want: -348},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreFromHash(tt.hash))
		})
	}
}

func TestDocumentHash(t *testing.T) {
	assert.Equal(t, int32(0), documentHash(""))
	assert.Equal(t, int32(97), documentHash("a"))
	assert.Equal(t, int32(96354), documentHash("abc"))
	assert.Equal(t, int32(-1861353340), documentHash("12345678"))
}
