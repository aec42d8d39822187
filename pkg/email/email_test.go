package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jana.novakova@acme.cz", "Jana Novakova"},
		{"petr_svoboda@firma.example", "Petr Svoboda"},
		{"boss@acme.example", "Boss"},
		{"a.b.c@x.example", "A B C"},
		{"ops+alerts@x.example", "Ops Alerts"},
		{"@x.example", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in), "input %q", tt.in)
	}
}
