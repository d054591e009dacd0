package parser

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTMLFile 解析 Messenger "Download your information" 导出的 HTML。
// 不同导出版本的结构有差异，这里兼容常见的几种 class 命名。
func ParseHTMLFile(path string, myName string) ([]ChatMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var messages []ChatMessage

	doc.Find(".message, .msg, div[class*='message']").Each(func(i int, s *goquery.Selection) {
		// 发送方：靠右/mine/self 的气泡是本人
		class, _ := s.Attr("class")
		isRight := strings.Contains(class, "right") || strings.Contains(class, "mine") || strings.Contains(class, "self")

		content := ""
		s.Find(".bubble, .content, .text, .msg-text").Each(func(j int, cs *goquery.Selection) {
			content = strings.TrimSpace(cs.Text())
		})
		if content == "" {
			content = strings.TrimSpace(s.Find("div").Last().Text())
		}
		if content == "" {
			return
		}

		sender := ""
		s.Find(".nickname, .name, .sender").Each(func(j int, ns *goquery.Selection) {
			sender = strings.TrimSpace(ns.Text())
		})

		timeStr := ""
		s.Find(".time, .timestamp, .date").Each(func(j int, ts *goquery.Selection) {
			timeStr = strings.TrimSpace(ts.Text())
		})
		ts, _ := parseTimestamp(timeStr)

		me := isRight
		if sender != "" {
			me = isRight || isMe(sender, myName)
		}
		if !me && sender == "" {
			sender = "them"
		} else if me {
			sender = myName
		}

		messages = append(messages, ChatMessage{
			Timestamp: ts,
			Sender:    sender,
			Content:   content,
			IsMe:      me,
		})
	})

	return messages, nil
}

// SplitConversations 按时间间隔把消息流切成交流片段
func SplitConversations(messages []ChatMessage, gapMinutes int) []Conversation {
	if len(messages) == 0 {
		return nil
	}

	gap := time.Duration(gapMinutes) * time.Minute
	var conversations []Conversation
	var current Conversation
	current.StartAt = messages[0].Timestamp

	for i, msg := range messages {
		if i > 0 && !msg.Timestamp.IsZero() && !messages[i-1].Timestamp.IsZero() {
			if msg.Timestamp.Sub(messages[i-1].Timestamp) > gap {
				current.EndAt = messages[i-1].Timestamp
				if len(current.Messages) >= 2 { // 少于 2 条不算交流
					conversations = append(conversations, current)
				}
				current = Conversation{StartAt: msg.Timestamp}
			}
		}
		current.Messages = append(current.Messages, msg)
	}

	if len(current.Messages) >= 2 {
		current.EndAt = current.Messages[len(current.Messages)-1].Timestamp
		conversations = append(conversations, current)
	}

	return conversations
}

// FilterTextOnly 过滤掉贴图、附件之类的非文本消息
func FilterTextOnly(messages []ChatMessage) []ChatMessage {
	nonTextPatterns := []string{
		"[Photo]", "[Video]", "[Sticker]", "[GIF]",
		"[Attachment]", "[Voice message]", "[Link]",
		"You sent a photo", "sent an attachment",
		"<img", "<video", "<audio",
	}

	var filtered []ChatMessage
	for _, m := range messages {
		skip := false
		for _, p := range nonTextPatterns {
			if strings.Contains(m.Content, p) {
				skip = true
				break
			}
		}
		if !skip && len(m.Content) > 0 {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
