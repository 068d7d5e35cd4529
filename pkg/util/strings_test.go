package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrictInt(t *testing.T) {
	testData := map[string]struct {
		in   string
		want int
		ok   bool
	}{
		"plain":       {"3", 3, true},
		"whitespace":  {" 12\t", 12, true},
		"negative":    {"-4", -4, true},
		"plus sign":   {"+5", 5, true},
		"empty":       {"", 0, false},
		"blank":       {"   ", 0, false},
		"fraction":    {"2.5", 0, false},
		"float zero":  {"3.0", 0, false},
		"trailing":    {"3x", 0, false},
		"word":        {"three", 0, false},
		"exponent":    {"1e2", 0, false},
		"hexadecimal": {"0x10", 0, false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseStrictInt(td.in)
			assert.Equal(t, td.ok, ok)
			assert.Equal(t, td.want, got)
		})
	}
}
