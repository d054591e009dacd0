package chat

import (
	"testing"

	"google.golang.org/genai"
)

func TestStateLastSeenRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := NewState(10, dir)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	if s.LastSeen() != "" {
		t.Errorf("fresh state LastSeen = %q, want empty", s.LastSeen())
	}

	s.SetLastSeen("Can we talk tomorrow?")
	s.AddIncoming("Can we talk tomorrow?")
	s.AddReply("Sure, what time works for you?")
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// 重新加载，状态应当恢复
	restored, err := NewState(10, dir)
	if err != nil {
		t.Fatalf("NewState() reload error = %v", err)
	}
	if restored.LastSeen() != "Can we talk tomorrow?" {
		t.Errorf("restored LastSeen = %q", restored.LastSeen())
	}

	history := restored.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != string(genai.RoleUser) {
		t.Errorf("history[0].Role = %q, want user", history[0].Role)
	}
	if history[1].Role != string(genai.RoleModel) {
		t.Errorf("history[1].Role = %q, want model", history[1].Role)
	}
}

func TestStateTrimsHistory(t *testing.T) {
	s, err := NewState(2, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		s.AddIncoming("in")
		s.AddReply("out")
	}
	if got := len(s.History()); got != 4 {
		t.Errorf("len(History()) = %d, want 4", got)
	}
}
