package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare json passes through",
			input: `{"valid": true}`,
			want:  `{"valid": true}`,
		},
		{
			name:  "think block stripped",
			input: "<think>reasoning about the task\nmore reasoning</think>{\"valid\": true}",
			want:  `{"valid": true}`,
		},
		{
			name:  "markdown fence stripped",
			input: "```json\n{\"valid\": true}\n```",
			want:  `{"valid": true}`,
		},
		{
			name:  "surrounding prose stripped",
			input: "Here is the result:\n{\"valid\": true}\nLet me know if you need more.",
			want:  `{"valid": true}`,
		},
		{
			name:  "nested braces kept intact",
			input: `prefix {"outer": {"inner": 1}} suffix`,
			want:  `{"outer": {"inner": 1}}`,
		},
		{
			name:  "think block with json inside it ignored",
			input: "<think>{\"draft\": 1}</think>{\"final\": 2}",
			want:  `{"final": 2}`,
		},
		{
			name:  "no braces returned unchanged",
			input: "I cannot help with that.",
			want:  "I cannot help with that.",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}
