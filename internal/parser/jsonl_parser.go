package parser

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// jsonlEntry JSONL 导出里的一行：一组来往消息
type jsonlEntry struct {
	Messages []jsonlMessage `json:"messages"`
}

type jsonlMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DecryptFile 解密 AES-256-GCM 加密的导出文件。
// 文件格式: salt(16) + nonce(16) + tag(16) + ciphertext
func DecryptFile(path string, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) < 48 {
		return nil, fmt.Errorf("file too small")
	}

	salt := data[:16]
	nonce := data[16:32]
	tag := data[32:48]
	ciphertext := data[48:]

	key := pbkdf2.Key([]byte(password), salt, 100000, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, 16)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	// GCM 解密要求 ciphertext+tag 拼在一起
	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// ParseJSONLBytes 把 JSONL 导出解析成扁平消息列表。
// userIsMe 表示 role=user 的一方是不是本人。
func ParseJSONLBytes(data []byte, myName, targetName string, userIsMe bool) ([]ChatMessage, error) {
	var all []ChatMessage

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry jsonlEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		for _, msg := range entry.Messages {
			me := (msg.Role == "user" && userIsMe) || (msg.Role == "assistant" && !userIsMe)
			sender := targetName
			if me {
				sender = myName
			}

			// 一条 content 可能含多条消息（\n 分隔）
			for _, part := range strings.Split(msg.Content, "\n") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				all = append(all, ChatMessage{
					Sender:  sender,
					Content: part,
					IsMe:    me,
				})
			}
		}
	}

	return all, scanner.Err()
}

// ParseJSONLToConversations 每行 JSONL 天然就是一组交流，直接切片段
func ParseJSONLToConversations(data []byte, myName, targetName string, userIsMe bool) ([]Conversation, error) {
	var conversations []Conversation

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry jsonlEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		var conv Conversation
		for _, msg := range entry.Messages {
			me := (msg.Role == "user" && userIsMe) || (msg.Role == "assistant" && !userIsMe)
			sender := targetName
			if me {
				sender = myName
			}
			conv.Messages = append(conv.Messages, ChatMessage{
				Sender:  sender,
				Content: msg.Content,
				IsMe:    me,
			})
		}

		if len(conv.Messages) >= 2 {
			conversations = append(conversations, conv)
		}
	}

	return conversations, scanner.Err()
}
