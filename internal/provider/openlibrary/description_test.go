package openlibrary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text untouched", "A fox outwits three farmers.", "A fox outwits three farmers."},
		{"br becomes newline", "First paragraph.<br>Second paragraph.", "First paragraph.\nSecond paragraph."},
		{"self-closing br", "One<br/>Two<br />Three", "One\nTwo\nThree"},
		{"tags stripped", "<p>Hello <b>world</b></p>", "Hello world"},
		{"surrounding whitespace trimmed", "<p>  padded  </p>", "padded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripMarkup(tc.in))
		})
	}
}
