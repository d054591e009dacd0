package parser

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// 匹配消息头行: "2024-01-15 18:30:00 Alice Johnson" 或 "2024-01-15 18:30 Alice Johnson"
var headerRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(?::\d{2})?)\s+(.+?)\s*$`)

// ParseTextFile 解析"时间戳 + 发送人"为头、正文跟在后面的纯文本导出格式
func ParseTextFile(path string, myName string) ([]ChatMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var messages []ChatMessage
	var current *ChatMessage
	var contentBuf strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(contentBuf.String())
		if current.Content != "" {
			messages = append(messages, *current)
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024) // 1MB buffer

	for scanner.Scan() {
		line := scanner.Text()

		if matches := headerRe.FindStringSubmatch(line); matches != nil {
			flush()

			ts, err := parseTimestamp(matches[1])
			if err != nil {
				current = nil
				continue
			}
			sender := matches[2]
			current = &ChatMessage{
				Timestamp: ts,
				Sender:    sender,
				IsMe:      isMe(sender, myName),
			}
			contentBuf.Reset()
			continue
		}

		// 正文行
		if current != nil {
			if contentBuf.Len() > 0 {
				contentBuf.WriteString("\n")
			}
			contentBuf.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return messages, nil
}

func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown timestamp format: %s", s)
}

// Messenger 导出有时把本人记成 "You"
func isMe(sender, myName string) bool {
	return sender == myName || strings.EqualFold(sender, "you")
}
