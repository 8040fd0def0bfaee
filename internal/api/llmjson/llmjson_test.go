package llmjson

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
)

type stubClient struct {
	response string
	prompts  []string
}

func (s *stubClient) Complete(_ context.Context, prompt string, _ completions.Params) string {
	s.prompts = append(s.prompts, prompt)
	return s.response
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already clean",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "markdown fences",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fences",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "prose around object",
			input:    "Here is your itinerary:\n{\"days\": []}\nEnjoy your trip!",
			expected: `{"days": []}`,
		},
		{
			name:     "trailing commas",
			input:    `{"a": [1, 2,], "b": {"c": 3,},}`,
			expected: `{"a": [1, 2], "b": {"c": 3}}`,
		},
		{
			name:     "smart quotes",
			input:    `{“name”: “Pho Bo”}`,
			expected: `{"name": "Pho Bo"}`,
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": [1,],}\n```",
		`text before {“k”: “v”,} text after`,
		`{"ok": true}`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once))
	}
}

func TestRecoverDirectParse(t *testing.T) {
	client := &stubClient{}
	out := Recover(context.Background(), client, `{"days": [{"day": 1}]}`, completions.Params{})
	require.NotNil(t, out)
	assert.Empty(t, client.prompts, "valid JSON must not trigger a repair call")
}

func TestRecoverViaSanitize(t *testing.T) {
	client := &stubClient{}
	raw := "```json\n{\"days\": [],}\n```"
	out := Recover(context.Background(), client, raw, completions.Params{})
	require.NotNil(t, out)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Contains(t, doc, "days")
	assert.Empty(t, client.prompts)
}

func TestRecoverViaRepairPrompt(t *testing.T) {
	client := &stubClient{response: `{"fixed": true}`}
	out := Recover(context.Background(), client, `{"broken": tru`, completions.Params{})
	require.NotNil(t, out)
	assert.JSONEq(t, `{"fixed": true}`, string(out))
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], `{"broken": tru`)
}

func TestRecoverRepairResponseStillFenced(t *testing.T) {
	client := &stubClient{response: "```json\n{\"fixed\": true}\n```"}
	out := Recover(context.Background(), client, "not json at all {", completions.Params{})
	require.NotNil(t, out)
	assert.JSONEq(t, `{"fixed": true}`, string(out))
}

func TestRecoverAllStrategiesFail(t *testing.T) {
	client := &stubClient{response: "still not json"}
	out := Recover(context.Background(), client, "garbage {{{", completions.Params{})
	assert.Nil(t, out)
}

func TestRecoverNilClient(t *testing.T) {
	out := Recover(context.Background(), nil, "garbage {{{", completions.Params{})
	assert.Nil(t, out)
}
