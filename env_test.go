package jobdesk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	type testCase struct {
		name     string
		env      map[string]string
		input    string
		expected string
	}

	tests := []testCase{
		{name: "no expressions", input: "https://api.example.com", expected: "https://api.example.com"},
		{name: "single expression", env: map[string]string{"JOBDESK_TOKEN": "t-1"}, input: "token: ${env.JOBDESK_TOKEN}", expected: "token: t-1"},
		{name: "multiple expressions", env: map[string]string{"A": "1", "B": "2"}, input: "${env.A}-${env.B}-${env.A}", expected: "1-2-1"},
		{name: "unset variable becomes empty", input: "key=${env.JOBDESK_NOTSET}-end", expected: "key=-end"},
		{name: "missing closing brace", input: "start ${env.X and more", expected: "start ${env.X and more"},
		{name: "invalid key kept literal", env: map[string]string{"Y": "y"}, input: "${env.a-b} ${env.Y}", expected: "${env.a-b} y"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, expandEnv(tc.input))
		})
	}
}
