package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/genai"
)

// Entry 一次来往记录
type Entry struct {
	Role      string    `json:"role"` // "incoming" / "reply"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type session struct {
	LastSeen   string    `json:"last_seen"` // 上一次采样归属出的最新消息
	Entries    []Entry   `json:"entries"`
	LastActive time.Time `json:"last_active"`
}

// State 跨轮询采样持久化的 bot 状态：最近见过的消息 + 有限长度的来往记录。
// 归属引擎本身无状态，新旧消息的比较在这里完成。
type State struct {
	mu        sync.Mutex
	session   *session
	maxTurns  int
	stateFile string
}

func NewState(maxTurns int, stateDir string) (*State, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &State{
		maxTurns:  maxTurns,
		stateFile: filepath.Join(stateDir, "state.json"),
	}

	// 尝试从文件恢复
	if data, err := os.ReadFile(s.stateFile); err == nil {
		var sess session
		if json.Unmarshal(data, &sess) == nil {
			s.session = &sess
		}
	}
	if s.session == nil {
		s.session = &session{LastActive: time.Now()}
	}
	return s, nil
}

// LastSeen 上一次采样归属出的最新消息
func (s *State) LastSeen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.LastSeen
}

// SetLastSeen 记录本次采样的最新消息
func (s *State) SetLastSeen(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.LastSeen = message
	s.session.LastActive = time.Now()
}

// AddIncoming 记录对方发来的消息
func (s *State) AddIncoming(content string) {
	s.add("incoming", content)
}

// AddReply 记录 bot 发出的回复
func (s *State) AddReply(content string) {
	s.add("reply", content)
}

func (s *State) add(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Entries = append(s.session.Entries, Entry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.session.LastActive = time.Now()
	s.trim()
}

// History 把来往记录转成 genai.Content，作为生成时的对话历史
func (s *State) History() []*genai.Content {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents := make([]*genai.Content, 0, len(s.session.Entries))
	for _, e := range s.session.Entries {
		var role genai.Role = genai.RoleUser
		if e.Role == "reply" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(e.Content, role))
	}
	return contents
}

// Save 持久化到文件
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(s.stateFile, data, 0644)
}

func (s *State) trim() {
	// 只留最近 maxTurns*2 条（每轮 = 1 incoming + 1 reply）
	limit := s.maxTurns * 2
	if limit > 0 && len(s.session.Entries) > limit {
		s.session.Entries = s.session.Entries[len(s.session.Entries)-limit:]
	}
}
