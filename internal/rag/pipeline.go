package rag

import (
	"context"
	"log/slog"
	"strings"
)

// 单个示例最多带进 prompt 的行数，超长的交流只留结尾（结尾才是和来信对应的部分）
const maxExampleLines = 12

type Pipeline struct {
	store         *Store
	topK          int
	minSimilarity float32
}

func NewPipeline(store *Store, topK int, minSimilarity float32) *Pipeline {
	return &Pipeline{
		store:         store,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// Retrieve 按归属出来的新来信检索历史交流示例，库为空时静默跳过。
// 为了给多取的过滤留余量，检索量放大一倍，最终最多返回 topK 条。
func (p *Pipeline) Retrieve(ctx context.Context, incoming string) ([]string, error) {
	if p == nil || p.store == nil || p.store.Count() == 0 {
		slog.Debug("no vectors in store, skipping RAG")
		return nil, nil
	}

	results, err := p.store.Query(ctx, incoming, p.topK*2, p.minSimilarity)
	if err != nil {
		return nil, err
	}

	examples := selectExamples(results, incoming, p.topK)
	slog.Debug("RAG retrieved examples", "query", incoming, "count", len(examples))
	return examples, nil
}

// selectExamples 把检索命中整理成能进 prompt 的示例：
// 丢掉单条消息的片段（看不出本人怎么接话）、丢掉把来信原文含在内的片段
// （多半就是当前这段对话被重复导入了），超长交流只留结尾几行。
func selectExamples(results []Result, incoming string, topK int) []string {
	var examples []string
	for _, r := range results {
		if len(examples) >= topK {
			break
		}
		if r.Turns < 2 {
			continue
		}
		if incoming != "" && strings.Contains(r.Exchange, incoming) {
			continue
		}
		examples = append(examples, tailLines(r.Exchange, maxExampleLines))
	}
	return examples
}

// tailLines 保留文本最后 n 个非空行
func tailLines(text string, n int) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
