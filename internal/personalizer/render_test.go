package personalizer

import (
	"errors"
	"strings"
	"testing"

	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/pipelineerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template models.Template
		customer string
		expected string
	}{
		{
			name:     "placeholder at start",
			template: "{customer_name}, invest today.",
			customer: "Ana",
			expected: "Ana, invest today.",
		},
		{
			name:     "placeholder in the middle",
			template: "Hello {customer_name}! Your money can grow.",
			customer: "Bruno",
			expected: "Hello Bruno! Your money can grow.",
		},
		{
			name:     "repeated placeholder",
			template: "{customer_name}, yes {customer_name}.",
			customer: "Carla",
			expected: "Carla, yes Carla.",
		},
		{
			name:     "escaped braces",
			template: "{{tip}} {customer_name} }}",
			customer: "Davi",
			expected: "{tip} Davi }",
		},
		{
			name:     "non-ascii name",
			template: "{customer_name}, comece já.",
			customer: "João",
			expected: "João, comece já.",
		},
		{
			name:     "no placeholder",
			template: "Invest today.",
			customer: "Eva",
			expected: "Invest today.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.customer)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, models.Placeholder)
		})
	}
}

func TestRender_FormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		template models.Template
		position int
		reason   string
	}{
		{name: "unclosed brace", template: "Hi {customer_name", position: 3, reason: "unclosed '{'"},
		{name: "unmatched closing brace", template: "Hi customer_name}", position: 16, reason: "unmatched '}'"},
		{name: "empty placeholder", template: "Hi {}", position: 3, reason: "empty placeholder"},
		{name: "unknown key", template: "Hi {nome_cliente}", position: 3, reason: `unknown placeholder "nome_cliente"`},
		{name: "nested brace", template: "Hi {x{y}", position: 3, reason: "nested '{'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.template, "Ana")
			require.Error(t, err)

			var formatErr *pipelineerror.FormatError
			require.True(t, errors.As(err, &formatErr), "expected FormatError, got %T", err)
			assert.Equal(t, tt.position, formatErr.Position)
			assert.Equal(t, tt.reason, formatErr.Reason)
			assert.Equal(t, string(tt.template), formatErr.Template)

			assert.Error(t, Validate(tt.template))
		})
	}
}

func TestValidate(t *testing.T) {
	for _, seg := range models.Segments() {
		assert.NoError(t, Validate(models.FallbackTemplate(seg)))
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		template models.Template
		want     int
	}{
		{template: "{customer_name}, invest.", want: 1},
		{template: "{customer_name} and {customer_name}", want: 2},
		{template: "{{customer_name}} stays literal", want: 0},
		{template: "no marker", want: 0},
	}
	for _, tt := range tests {
		n, err := Placeholders(tt.template)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, string(tt.template))
	}

	_, err := Placeholders("{customer_name}, {other}")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "çã", Truncate("çãõ", 2), "truncation counts characters, not bytes")
	assert.Equal(t, "", Truncate("abc", 0))

	long := strings.Repeat("é", 200)
	assert.Len(t, []rune(Truncate(long, models.MaxMessageLength)), models.MaxMessageLength)
}
