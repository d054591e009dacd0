package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Persona 可选的回复风格档案，叠加在 persona 正文之上
type Persona struct {
	Style    StyleProfile `json:"style"`
	Business BusinessInfo `json:"business"`
}

type StyleProfile struct {
	TypicalLength    string   `json:"typical_length"`
	Greeting         string   `json:"greeting"`
	SignOff          string   `json:"sign_off"`
	Formality        string   `json:"formality"`
	MultiMessage     bool     `json:"multi_message"`
	GreetingExamples []string `json:"greeting_examples"`
	NegativePatterns []string `json:"negative_patterns"`
}

type BusinessInfo struct {
	Name         string            `json:"name"`
	Website      string            `json:"website"`
	ResponseTime string            `json:"response_time"`
	Services     []string          `json:"services"`
	KeyFacts     map[string]string `json:"key_facts"`
}

func LoadFromFile(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	var p Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal persona: %w", err)
	}
	return &p, nil
}

// FormatStyleForPrompt 把风格档案格式化为 prompt 文本
func (p *Persona) FormatStyleForPrompt() string {
	s := p.Style
	var b strings.Builder

	if s.TypicalLength != "" {
		fmt.Fprintf(&b, "- Message length: %s\n", s.TypicalLength)
	}
	if s.Greeting != "" {
		fmt.Fprintf(&b, "- Opening: %s\n", s.Greeting)
	}
	if s.SignOff != "" {
		fmt.Fprintf(&b, "- Closing: %s\n", s.SignOff)
	}
	if s.Formality != "" {
		fmt.Fprintf(&b, "- Formality: %s\n", s.Formality)
	}
	if s.MultiMessage {
		b.WriteString("- Prefer several short messages over one long one\n")
	}
	if len(s.GreetingExamples) > 0 {
		fmt.Fprintf(&b, "- First-contact replies you have used: %s\n", strings.Join(s.GreetingExamples, " / "))
	}
	if len(s.NegativePatterns) > 0 {
		b.WriteString("\nYou never:\n")
		for _, n := range s.NegativePatterns {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}

// FormatBusinessForPrompt 把业务信息格式化为 prompt 文本
func (p *Persona) FormatBusinessForPrompt() string {
	info := p.Business
	var b strings.Builder

	if info.Name != "" {
		fmt.Fprintf(&b, "- Company: %s\n", info.Name)
	}
	if len(info.Services) > 0 {
		fmt.Fprintf(&b, "- Services: %s\n", strings.Join(info.Services, ", "))
	}
	if info.ResponseTime != "" {
		fmt.Fprintf(&b, "- Promised response time: %s\n", info.ResponseTime)
	}
	if info.Website != "" {
		fmt.Fprintf(&b, "- Website to share when helpful: %s\n", info.Website)
	}
	for k, v := range info.KeyFacts {
		fmt.Fprintf(&b, "- %s: %s\n", k, v)
	}
	return b.String()
}
