package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Embedded struct {
	Token string `env:"TELEGRAM_TOKEN"`
}

type sample struct {
	Embedded
	Provider string        `env:"TIAN_LLM_PROVIDER,required"`
	Steps    int           `env:"TIAN_MAX_STEPS"`
	Debug    bool          `env:"TIAN_DEBUG"`
	TTL      time.Duration `env:"TIAN_SESSION_IDLE_TTL"`
	Prefs    string        `env:"TIAN_PREFS"`
	CLI      *bool         `env:"TIAN_ENABLE_CLI"`
	Skipped  string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	tests := []struct {
		name     string
		input    *sample
		expected string
	}{
		{
			name:     "all zero",
			input:    &sample{},
			expected: "",
		},
		{
			name: "flattens embedded and skips untagged",
			input: &sample{
				Embedded: Embedded{Token: "123:abc"},
				Provider: "dashscope",
				Steps:    10,
				Debug:    true,
				Skipped:  "x",
				hidden:   "y",
			},
			expected: "TELEGRAM_TOKEN=123:abc\nTIAN_LLM_PROVIDER=dashscope\nTIAN_MAX_STEPS=10\nTIAN_DEBUG=true\n",
		},
		{
			name:     "duration and quoting",
			input:    &sample{TTL: 30 * time.Minute, Prefs: "likes hiking #1"},
			expected: "TIAN_SESSION_IDLE_TTL=30m0s\nTIAN_PREFS=\"likes hiking #1\"\n",
		},
		{
			name:     "pointer keeps explicit false",
			input:    &sample{CLI: new(bool)},
			expected: "TIAN_ENABLE_CLI=false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalEnv(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
