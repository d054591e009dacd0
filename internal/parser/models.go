// Package parser 解析导出的历史聊天记录，给 importer 喂向量库用。
// 注意：这里处理的是结构化导出文件；实时抓取的无结构转录归 transcript 包管。
package parser

import "time"

// ChatMessage 导出记录里的单条消息
type ChatMessage struct {
	Timestamp time.Time
	Sender    string
	Content   string
	IsMe      bool
}

// Conversation 一段完整交流（按时间间隔切分）
type Conversation struct {
	Messages []ChatMessage
	StartAt  time.Time
	EndAt    time.Time
}

// FormatAsExample 把一段交流格式化为 prompt 示例文本
func (c *Conversation) FormatAsExample(myName, targetName string) string {
	var s string
	for _, m := range c.Messages {
		name := targetName
		if m.IsMe {
			name = myName
		}
		s += name + ": " + m.Content + "\n"
	}
	return s
}
