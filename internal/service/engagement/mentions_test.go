// internal/service/engagement/mentions_test.go

package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want []string
	}{
		{"no handles here", nil},
		{"", nil},
		{"thanks @ben", []string{"ben"}},
		{"@ben and @cleo, plus @ben again", []string{"ben", "cleo"}},
		{"email me a@b won't count twice: @b", []string{"b"}},
		{"underscores_ok @soak_fan_99", []string{"soak_fan_99"}},
		{"punctuation stops @ben. right?", []string{"ben"}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractMentions(tc.text), "text %q", tc.text)
	}
}
