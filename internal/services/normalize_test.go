package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane doe"},
		{"  jane   DOE ", "jane doe"},
		{"JANE\tDOE", "jane doe"},
		{"jane doe", "jane doe"},
		{"", ""},
		{"   ", ""},
		{"Édouard Manet", "édouard manet"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}
