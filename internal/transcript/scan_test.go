package transcript

import "testing"

func TestLastMessage(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		myName    string
		wantMsg   string
		wantIndex int
	}{
		{
			name:      "plain last line",
			lines:     []string{"Alice", "Hey, are you free tomorrow?"},
			wantMsg:   "Hey, are you free tomorrow?",
			wantIndex: 1,
		},
		{
			name:      "trailing status skipped",
			lines:     []string{"Alice", "Hey there", "3:45 pm", "Delivered"},
			wantMsg:   "Hey there",
			wantIndex: 1,
		},
		{
			name:      "bare you sent label skipped",
			lines:     []string{"You sent", "See you soon"},
			wantMsg:   "See you soon",
			wantIndex: 1,
		},
		{
			name:      "inline you sent unwrapped",
			lines:     []string{"You sent hello there"},
			wantMsg:   "hello there",
			wantIndex: 0,
		},
		{
			name:      "bare you sent keeps scanning",
			lines:     []string{"Sounds good", "You sent", "Seen"},
			wantMsg:   "Sounds good",
			wantIndex: 0,
		},
		{
			name:      "name marker skipped",
			lines:     []string{"Bob Smith", "on my way"},
			wantMsg:   "on my way",
			wantIndex: 1,
		},
		{
			name:      "configured name skipped",
			lines:     []string{"alice", "heading out now"},
			myName:    "Alice",
			wantMsg:   "heading out now",
			wantIndex: 1,
		},
		{
			name:      "short message not mistaken for marker",
			lines:     []string{"Bob", "Thanks!"},
			wantMsg:   "Thanks!",
			wantIndex: 1,
		},
		{
			name:      "marker before bare you sent skipped",
			lines:     []string{"Bob Smith", "You sent", "Seen"},
			wantMsg:   "",
			wantIndex: -1,
		},
		{
			name:      "all status lines",
			lines:     []string{"3:45 pm", "Delivered", "Seen"},
			wantMsg:   "",
			wantIndex: -1,
		},
		{
			name:      "empty input",
			lines:     nil,
			wantMsg:   "",
			wantIndex: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, index := LastMessage(tt.lines, tt.myName)
			if msg != tt.wantMsg || index != tt.wantIndex {
				t.Errorf("LastMessage(%v, %q) = (%q, %d), want (%q, %d)",
					tt.lines, tt.myName, msg, index, tt.wantMsg, tt.wantIndex)
			}
		})
	}
}

func TestLastSender(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		myName string
		want   Sender
	}{
		{
			name:   "self after other",
			lines:  []string{"Alice", "Thanks!", "You sent", "Sounds good"},
			want:   SenderSelf,
		},
		{
			name:   "other party name",
			lines:  []string{"Bob Smith", "Can we talk tomorrow?"},
			myName: "Alice",
			want:   SenderOther,
		},
		{
			name:   "inline you sent",
			lines:  []string{"Bob", "hey", "You sent on my way"},
			want:   SenderSelf,
		},
		{
			name:   "no marker at all",
			lines:  []string{"hello there!", "see you soon?"},
			want:   SenderUnknown,
		},
		{
			name:   "own name is not other",
			lines:  []string{"Alice", "heading out"},
			myName: "Alice",
			want:   SenderUnknown,
		},
		{
			name: "empty input",
			want: SenderUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastSender(tt.lines, tt.myName); got != tt.want {
				t.Errorf("LastSender(%v, %q) = %q, want %q", tt.lines, tt.myName, got, tt.want)
			}
		})
	}
}
