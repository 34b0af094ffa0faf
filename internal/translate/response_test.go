package translate

import (
	"testing"
)

func TestExtractResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain valid array",
			input:     `[{"index": 0, "text": "こんにちは"}, {"index": 1, "text": "さようなら"}]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[{"index": 0, "text": "Bonjour"}, {"index": 1, "text": "Au revoir"}]`,
			wantCount: 2,
		},
		{
			name: "trailing text",
			input: `[{"index": 0, "text": "Hola"}]
			I hope this helps!`,
			wantCount: 1,
		},
		{
			name:      "results wrapper",
			input:     `{"results": [{"index": 0, "text": "Translated"}]}`,
			wantCount: 1,
		},
		{
			name:      "captions wrapper",
			input:     `{"captions": [{"index": 0, "text": "Übersetzt"}]}`,
			wantCount: 1,
		},
		{
			name:      "unknown wrapper key",
			input:     `{"output": [{"index": 0, "text": "Переведено"}]}`,
			wantCount: 1,
		},
		{
			name:      "markup line break escape",
			input:     `[{"index": 0, "text": "first line\Nsecond line"}]`,
			wantCount: 1,
		},
		{name: "empty array", input: `[]`, wantErr: true},
		{name: "no JSON at all", input: `This is just plain text.`, wantErr: true},
		{name: "truncated JSON", input: `[{"index": 0, "text": "incomplete"`, wantErr: true},
		{name: "only empty text", input: `[{"index": 0, "text": ""}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain JSON", `[{"index": 0}]`, `[{"index": 0}]`},
		{"json code fence", "```json\n[{\"index\": 0}]\n```", `[{"index": 0}]`},
		{"bare code fence", "```\n[{\"index\": 0}]\n```", `[{"index": 0}]`},
		{"surrounding whitespace", "  \n\n```json\n[{\"index\": 0}]\n```\n\n  ", `[{"index": 0}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	got := fixInvalidEscapes(`a\Nb\nc\"d`)
	want := `a\\Nb\nc\"d`
	if got != want {
		t.Errorf("fixInvalidEscapes() = %q, want %q", got, want)
	}
}

func TestParseResponseTextCountMismatch(t *testing.T) {
	_, err := parseResponseText("Test", `[{"index": 0, "text": "one"}]`, 2)
	if err == nil {
		t.Fatal("expected error for result count mismatch")
	}

	_, err = parseResponseText("Test", "", 1)
	if err == nil {
		t.Fatal("expected error for empty response")
	}

	results, err := parseResponseText("Test", "```json\n[{\"index\": 3, \"text\": \"x\"}]\n```", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Index != 3 || results[0].Text != "x" {
		t.Errorf("got %+v", results[0])
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 3); got != "abc..." {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("abc", 3); got != "abc" {
		t.Errorf("truncateString() = %q", got)
	}
}
