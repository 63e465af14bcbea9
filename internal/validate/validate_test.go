package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civickit/ballotbox/internal/validate"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips control characters", "he\x00llo\x1b", "hello"},
		{"neutralizes markup", `<script>alert("x")</script>`, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;"},
		{"plain text unchanged", "Jane Doe", "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.Sanitize(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, validate.Email("jane@example.com").Valid)
	assert.False(t, validate.Email("").Valid)
	assert.False(t, validate.Email("not-an-email").Valid)
}

func TestName(t *testing.T) {
	assert.True(t, validate.Name("Jane Doe").Valid)
	assert.False(t, validate.Name("").Valid)
	assert.False(t, validate.Name("Jane123").Valid)
	assert.False(t, validate.Name("jane@doe").Valid)
}

func TestPassword(t *testing.T) {
	assert.True(t, validate.Password("secret123").Valid)
	assert.False(t, validate.Password("").Valid)
	assert.False(t, validate.Password("abc").Valid)
}

func TestMerge_AccumulatesAllErrors(t *testing.T) {
	v := validate.Merge(
		validate.Name(""),
		validate.Email("bogus"),
		validate.Password("ab"),
	)

	assert.False(t, v.Valid)
	assert.Len(t, v.Errors, 3)
	assert.Contains(t, v.Message(), "Name is required")
	assert.Contains(t, v.Message(), "Invalid email address")
}

func TestMerge_AllValid(t *testing.T) {
	v := validate.Merge(validate.Name("Jane"), validate.Email("jane@example.com"))
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
}
