package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptpal/promptpal-go/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "User@Example.COM", "user@example.com"},
		{"whitespace", "  a@b.com  ", "a@b.com"},
		{"consecutive dots", "first..last@example.com", "first.last@example.com"},
		{"leading dot", ".user@example.com", "user@example.com"},
		{"not an email", "  JustAName ", "justaname"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "promptsmith", sanitizer.NormalizeUsername("  PromptSmith "))
}

func TestTrimOTP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123456", sanitizer.TrimOTP(" 123456\n"))
}
