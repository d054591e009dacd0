package rag

import (
	"reflect"
	"strings"
	"testing"
)

func TestSelectExamples(t *testing.T) {
	results := []Result{
		{Exchange: "Alice: can we meet?\nSam: sure, when?", Similarity: 0.9, Turns: 2},
		{Exchange: "Alice: single line fragment", Similarity: 0.8, Turns: 1},
		{Exchange: "Alice: are you free tomorrow?\nSam: yes, after 3", Similarity: 0.7, Turns: 2},
	}

	got := selectExamples(results, "are you around?", 5)
	want := []string{
		"Alice: can we meet?\nSam: sure, when?",
		"Alice: are you free tomorrow?\nSam: yes, after 3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectExamples() = %v, want %v", got, want)
	}
}

func TestSelectExamplesDropsEchoOfIncoming(t *testing.T) {
	incoming := "Can we talk tomorrow?"
	results := []Result{
		// 当前对话自己被导入过，含来信原文，不能再当示例喂回去
		{Exchange: "Alice: Can we talk tomorrow?\nSam: sure", Similarity: 0.99, Turns: 2},
		{Exchange: "Alice: got a minute?\nSam: yep, go ahead", Similarity: 0.6, Turns: 2},
	}

	got := selectExamples(results, incoming, 5)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if strings.Contains(got[0], incoming) {
		t.Errorf("echo of incoming survived: %q", got[0])
	}
}

func TestSelectExamplesHonorsTopK(t *testing.T) {
	results := []Result{
		{Exchange: "a: 1\nb: 2", Turns: 2},
		{Exchange: "a: 3\nb: 4", Turns: 2},
		{Exchange: "a: 5\nb: 6", Turns: 2},
	}
	if got := selectExamples(results, "", 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSelectExamplesTruncatesLongExchanges(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Alice: filler\nSam: filler reply\n")
	}
	results := []Result{{Exchange: b.String(), Turns: 80}}

	got := selectExamples(results, "hello?", 1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if n := len(strings.Split(got[0], "\n")); n != maxExampleLines {
		t.Errorf("example has %d lines, want %d", n, maxExampleLines)
	}
}

func TestTailLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short text unchanged", "a\nb", 5, "a\nb"},
		{"keeps the tail", "a\nb\nc\nd", 2, "c\nd"},
		{"blank lines dropped", "a\n\n \nb", 5, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tailLines(tt.text, tt.n); got != tt.want {
				t.Errorf("tailLines(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}
