package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role 一行在当前采样里的角色，四者互斥
type Role int

const (
	RoleContent     Role = iota // 消息正文
	RoleStatus                  // 时间戳 / 送达状态等 UI 元数据
	RoleSelfMarker              // 标记"本人"的发送方标签
	RoleOtherMarker             // 标记"对方"的发送方标签
)

// 匹配纯时间行: "3:45 pm"、"14:02"
var clockRe = regexp.MustCompile(`^\d{1,2}:\d{2}(\s?[ap]m)?$`)

// 人名形状：1~3 个词，每个词以字母开头，只含字母、撇号、点、连字符
var nameShapeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z'’.-]*(\s+[A-Za-z][A-Za-z'’.-]*){0,2}$`)

// 只保留字母的归一化，用于识别被平台拼接过的 "You sent" 标签
var nonLettersRe = regexp.MustCompile(`[^a-z]+`)

// 消息正文里常见、但人名标签里不会出现的标点
const markerPunct = ":.!?|•·@-"

// IsStatusLine 判断是否为状态行（时间戳或 sent/delivered/seen 回执）。
// 必须先于各 marker 判断执行，否则时间戳会被误认成标签。
func IsStatusLine(line string) bool {
	lowered := strings.ToLower(line)
	if clockRe.MatchString(lowered) {
		return true
	}
	return strings.HasPrefix(lowered, "sent") ||
		strings.HasPrefix(lowered, "delivered") ||
		strings.HasPrefix(lowered, "seen")
}

// IsYouSentLine 判断字母归一化后是否为 "you sent" 或以 "you sent " 开头。
// Messenger 抓出来的 "You sent" 标签有时会和正文粘在一行。
func IsYouSentLine(line string) bool {
	normalized := strings.TrimSpace(nonLettersRe.ReplaceAllString(strings.ToLower(line), " "))
	return normalized == "you sent" || strings.HasPrefix(normalized, "you sent ")
}

// IsSelfMarker 判断是否为"本人"发送方标签：
// "You sent" 字面形式、"you:"/"me:"，或配置的本人名字（可带冒号）。
func IsSelfMarker(line, myName string) bool {
	lowered := strings.ToLower(strings.TrimSpace(line))
	if IsYouSentLine(line) || lowered == "you:" || lowered == "me:" {
		return true
	}
	if myName != "" {
		nameLower := strings.ToLower(myName)
		if lowered == nameLower || strings.HasPrefix(lowered, nameLower+":") {
			return true
		}
	}
	return false
}

// IsOtherMarker 严格判断是否为"对方"发送方标签。
// 只有后面确实跟着正文（而不是状态行或 "You sent"）、且本行长得像人名时才算，
// 避免把 "Thank you" 这类短消息当成名字。
func IsOtherMarker(line, next, myName string) bool {
	if IsStatusLine(line) || IsSelfMarker(line, myName) {
		return false
	}
	if next == "" || IsStatusLine(next) || IsYouSentLine(next) {
		return false
	}
	return nameShapeRe.MatchString(strings.TrimSpace(line))
}

// isSkippableMarker 宽松版"像标签就跳过"判断，只给 LastMessage 用。
// 不做人名字符形状校验：提取器只需要"可能是标签，别当正文"，
// 不需要像 IsOtherMarker 那样放心地归属给对方。
func isSkippableMarker(line, next, myName string) bool {
	if IsSelfMarker(line, myName) {
		return true
	}
	if IsStatusLine(line) {
		return false
	}
	if strings.ContainsAny(line, markerPunct) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 1 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return next != "" && !IsStatusLine(next)
}

// Classify 给一行打角色标签。marker 判断依赖下一行和配置的本人名字，
// 状态行优先，self 优先于 other，都不是就是正文。
func Classify(line, next, myName string) Role {
	switch {
	case IsStatusLine(line):
		return RoleStatus
	case IsSelfMarker(line, myName):
		return RoleSelfMarker
	case IsOtherMarker(line, next, myName):
		return RoleOtherMarker
	default:
		return RoleContent
	}
}
