package ai

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(
		"You are the owner's auto-reply assistant.",
		"- keep it short\n",
		"- website: https://example.com\n",
		[]string{"Hi Bob, thanks for reaching out!"},
	)

	for _, want := range []string{
		"auto-reply assistant",
		"## Your reply style",
		"keep it short",
		"## Business facts you may share",
		"https://example.com",
		"Example 1:",
		"Hi Bob, thanks for reaching out!",
		"## Reply rules",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildSystemPrompt("persona", "", "", nil)
	for _, absent := range []string{"## Your reply style", "## Business facts", "Example 1:"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt unexpectedly contains %q", absent)
		}
	}
	if !strings.Contains(prompt, "## Reply rules") {
		t.Error("rules section must always be present")
	}
}

func TestSplitMultiMessage(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"single message", "hello there", []string{"hello there"}},
		{"three parts", "hi ||| how are you ||| talk soon", []string{"hi", "how are you", "talk soon"}},
		{"empty parts dropped", "hi ||| ||| bye", []string{"hi", "bye"}},
		{"only separators falls back", "|||", []string{"|||"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitMultiMessage(tt.reply); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitMultiMessage(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestSanitizeReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"strips ai disclaimer", "As an AI, I think that works.", ", I think that works."},
		{"strips wrapping quotes", `"Sounds good, see you at 3!"`, "Sounds good, see you at 3!"},
		{"plain reply untouched", "Sounds good, see you at 3!", "Sounds good, see you at 3!"},
		{"trims whitespace", "  hi there \n", "hi there"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeReply(tt.reply); got != tt.want {
				t.Errorf("SanitizeReply(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}
