package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWei(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want string
	}{
		{"whole tokens", "5000000000000000000", "5"},
		{"fractional", "1500000000000000000", "1.5"},
		{"sub-token dust", "1000000000000", "0.000001"},
		{"zero", "0", "0"},
		{"unparseable", "not-a-number", "0"},
		{"empty", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWei(tt.wei))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Gold", Capitalize("gold"))
	assert.Equal(t, "Gold", Capitalize("Gold"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Über", Capitalize("über"))
}
