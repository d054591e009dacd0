package transcript

import "strings"

const youSentPrefix = "you sent"

// LastMessage 从最后一行反向扫描，返回最近一条真实消息及其下标。
// 状态行和像标签的行直接跳过；行内拼接的 "You sent xxx" 取前缀后的剩余部分。
// "You sent" 单独占一行且后面没剩余内容时继续向前找。找不到返回 ("", -1)。
func LastMessage(lines []string, myName string) (string, int) {
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if IsStatusLine(line) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), youSentPrefix) {
			remainder := strings.TrimSpace(line[len(youSentPrefix):])
			if remainder != "" {
				return remainder, i
			}
			continue
		}
		if isSkippableMarker(line, next, myName) {
			continue
		}
		return line, i
	}
	return "", -1
}

// LastSender 从最后一行反向扫描，找最近一个能下结论的发送方标签。
// 这里故意只用严格判定：误判成 other 会触发对自己消息的自动回复，
// 所以 self 只认 "you sent" 字面形式，other 必须过完整的人名判定。
func LastSender(lines []string, myName string) Sender {
	for i := len(lines) - 1; i >= 0; i-- {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if IsYouSentLine(lines[i]) {
			return SenderSelf
		}
		if IsOtherMarker(lines[i], next, myName) {
			return SenderOther
		}
	}
	return SenderUnknown
}
