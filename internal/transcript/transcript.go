// Package transcript 从抓取的聊天转录纯文本中恢复最近一条消息及其发送方。
// 输入没有任何可靠结构：时间戳、送达状态、发送人名字标签和消息正文混在一起，
// 末尾还可能带输入框占位文本，全部依赖逐行启发式判断。
package transcript

import "strings"

// Sender 最近一条消息的归属判定结果
type Sender string

const (
	SenderSelf    Sender = "self"  // 本人发的
	SenderOther   Sender = "other" // 对方发的
	SenderUnknown Sender = ""      // 无法判定
)

// Attribution 一次转录采样的归属结果
type Attribution struct {
	Message string // 最近一条真实消息，找不到时为空
	Index   int    // 消息在裁剪后行序列中的下标，找不到时为 -1
	Sender  Sender
}

// Found 是否找到了可归属的消息
func (a Attribution) Found() bool {
	return a.Index >= 0
}

// Normalize 把原始转录文本拆成去掉首尾空白、剔除空行的行序列，保持原顺序
func Normalize(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Attribute 对一次转录采样做完整归属：归一化 → 裁掉 UI 杂项 → 反向扫描。
// 纯函数，不在采样之间保留任何状态，可以并发调用。
func Attribute(raw, myName string) Attribution {
	lines := TrimChrome(Normalize(raw))
	message, index := LastMessage(lines, myName)
	return Attribution{
		Message: message,
		Index:   index,
		Sender:  LastSender(lines, myName),
	}
}
