package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"distinct", []string{"A", "B"}, []string{"A", "B"}},
		{"repeated", []string{"A", "A", "A"}, []string{"A", "A.1", "A.2"}},
		{"suffix already taken", []string{"A", "A.1", "A"}, []string{"A", "A.1", "A.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueHeaders(tt.in))
		})
	}
}
