package ai

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt 组装完整的 System Prompt：
// persona 正文 + 回复风格档案 + 业务信息 + RAG 检索到的真实回复示例 + 固定规则。
func BuildSystemPrompt(personaText, styleProfile, businessInfo string, ragExamples []string) string {
	var b strings.Builder

	if personaText != "" {
		b.WriteString(strings.TrimSpace(personaText))
		b.WriteString("\n\n")
	}

	if styleProfile != "" {
		b.WriteString("## Your reply style\n")
		b.WriteString(styleProfile)
		b.WriteString("\n")
	}

	if businessInfo != "" {
		b.WriteString("## Business facts you may share\n")
		b.WriteString(businessInfo)
		b.WriteString("\n")
	}

	if len(ragExamples) > 0 {
		b.WriteString("## Replies you actually sent in similar situations\n")
		for i, ex := range ragExamples {
			fmt.Fprintf(&b, "Example %d:\n%s\n\n", i+1, ex)
		}
	}

	b.WriteString("## Reply rules\n")
	b.WriteString("1. The user message is a raw scrape of the chat window; reply only to the newest message from the other party\n")
	b.WriteString("2. Keep the reply short and human, one or two sentences\n")
	b.WriteString("3. To send several short messages instead of one, separate them with |||\n")
	b.WriteString("4. Never mention that replies are automated and never explain internal logic\n")
	b.WriteString("5. Ask at most one question and never request sensitive information\n")

	return b.String()
}

// SplitMultiMessage 按 ||| 拆成多条消息
func SplitMultiMessage(reply string) []string {
	parts := strings.Split(reply, "|||")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return []string{reply}
	}
	return result
}

// SanitizeReply 去掉模型常见的机器人腔开头和套话
func SanitizeReply(reply string) string {
	patterns := []string{
		"As an AI assistant",
		"As an AI",
		"As a language model",
		"I'm just an AI",
		"I understand how you feel",
		"I hope this helps",
		"Feel free to reach out",
		"Is there anything else I can help you with?",
	}
	for _, p := range patterns {
		reply = strings.ReplaceAll(reply, p, "")
	}
	// 模型偶尔会把回复包进引号里
	reply = strings.TrimSpace(reply)
	if len(reply) >= 2 && strings.HasPrefix(reply, `"`) && strings.HasSuffix(reply, `"`) {
		reply = reply[1 : len(reply)-1]
	}
	return strings.TrimSpace(reply)
}
