package transcript

import "strings"

// 输入框/占位区的前缀。抓取的转录会把消息列表后面的 UI 控件一起带出来，
// "aa" 是 Messenger 输入框左侧的表情占位符。
var cutoffPrefixes = []string{
	"write a message",
	"write to",
	"type a message",
	"message",
	"aa",
}

// TrimChrome 找到最后一个以输入框占位前缀开头的行，丢弃它及其之后的所有行。
// 没有命中时原样返回。命中行之前的内容永远不会被动到，所以重复裁剪是幂等的。
func TrimChrome(lines []string) []string {
	lastCutoff := -1
	for i, line := range lines {
		lowered := strings.ToLower(line)
		for _, prefix := range cutoffPrefixes {
			if strings.HasPrefix(lowered, prefix) {
				lastCutoff = i
				break
			}
		}
	}
	if lastCutoff >= 0 {
		return lines[:lastCutoff]
	}
	return lines
}
