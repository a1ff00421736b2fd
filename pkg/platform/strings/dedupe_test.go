package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single broker", "k1:9092", []string{"k1:9092"}},
		{"trims around commas", " k1:9092 ,k2:9092 ", []string{"k1:9092", "k2:9092"}},
		{"drops blanks and repeats", "k1:9092,,k2:9092, k1:9092", []string{"k1:9092", "k2:9092"}},
		{"only separators", " , ,", []string{}},
		{"case sensitive", "Health,health", []string{"Health", "health"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestDedupeAndTrimEmpty(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
}
