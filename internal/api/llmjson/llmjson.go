// Package llmjson recovers structured JSON from raw LLM output. Model text
// is adversarial by accident: truncation from token limits, markdown
// wrapping, and stray commentary around the payload are the dominant
// failure modes, in that order.
package llmjson

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	doubleCommaRe   = regexp.MustCompile(`,\s*,`)
	fencedBlockRe   = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")
)

var smartQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// Sanitize performs best-effort textual repair of near-JSON: strips
// markdown fences, normalizes smart quotes, extracts the outermost object
// when prose surrounds it, and removes trailing commas.
func Sanitize(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}

	if m := fencedBlockRe.FindStringSubmatch(t); len(m) == 2 && m[1] != "" {
		t = m[1]
	} else {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(t, "```")
	}

	t = smartQuotes.Replace(t)

	first := strings.Index(t, "{")
	last := strings.LastIndex(t, "}")
	if first != -1 && last > first {
		t = t[first : last+1]
	}

	t = trailingCommaRe.ReplaceAllString(t, "$1")
	t = doubleCommaRe.ReplaceAllString(t, ",")

	return strings.TrimSpace(t)
}

func repairPrompt(badText string) string {
	return fmt.Sprintf(`You are a JSON repair tool.

TASK:
- Input is broken or partial JSON.
- Your job is to output ONE (1) valid JSON object.
- Do not add explanations or markdown.

BROKEN INPUT:
%s`, badText)
}

// Recover escalates through three strategies: direct parse, textual
// sanitization, then a repair re-prompt through the completion gateway.
// It returns nil when all of them fail, so callers must keep a
// deterministic fallback ready for the nil case.
func Recover(ctx context.Context, client completions.Client, raw string, repairParams completions.Params) json.RawMessage {
	if parsed := parse(raw); parsed != nil {
		return parsed
	}
	if parsed := parse(Sanitize(raw)); parsed != nil {
		return parsed
	}
	if client == nil || strings.TrimSpace(raw) == "" {
		return nil
	}

	repaired := client.Complete(ctx, repairPrompt(raw), repairParams)
	if repaired == "" {
		return nil
	}
	if parsed := parse(repaired); parsed != nil {
		return parsed
	}
	return parse(Sanitize(repaired))
}

func parse(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s[0] != '{' && s[0] != '[' {
		return nil
	}
	if !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
