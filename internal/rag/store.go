// Package rag 管历史交流样本的向量化存取：importer 把导出的真实来往写进来，
// bot 回复前按新来信检索相似场景，把"本人当时怎么回的"塞进 prompt。
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// Example 一段完整的历史交流样本，Exchange 是 "名字: 消息" 的多行文本
type Example struct {
	ID       string
	Exchange string
	Turns    int // 交流里的消息条数
}

// Result 一次检索命中
type Result struct {
	Exchange   string
	Similarity float32
	Turns      int
}

type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewStore 创建或加载向量存储
func NewStore(vectorsDir string, embedFunc chromem.EmbeddingFunc) (*Store, error) {
	db, err := chromem.NewPersistentDB(vectorsDir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	col, err := db.GetOrCreateCollection("reply-examples", nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("get/create collection: %w", err)
	}

	slog.Info("vector store loaded", "dir", vectorsDir, "count", col.Count())
	return &Store{db: db, collection: col}, nil
}

// AddExamples 批量写入交流样本（importer 用），消息条数记进 metadata
func (s *Store) AddExamples(ctx context.Context, examples []Example) error {
	docs := make([]chromem.Document, 0, len(examples))
	for _, ex := range examples {
		docs = append(docs, chromem.Document{
			ID:      ex.ID,
			Content: ex.Exchange,
			Metadata: map[string]string{
				"turns": strconv.Itoa(ex.Turns),
			},
		})
	}
	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Query 检索和来信最相似的历史交流
func (s *Store) Query(ctx context.Context, text string, topK int, minSimilarity float32) ([]Result, error) {
	if s.collection.Count() == 0 {
		return nil, nil
	}

	k := topK
	if k > s.collection.Count() {
		k = s.collection.Count()
	}

	docs, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	var results []Result
	for _, d := range docs {
		if d.Similarity < minSimilarity {
			continue
		}
		turns, _ := strconv.Atoi(d.Metadata["turns"])
		results = append(results, Result{
			Exchange:   d.Content,
			Similarity: d.Similarity,
			Turns:      turns,
		})
	}
	return results, nil
}

// Count 返回样本数量
func (s *Store) Count() int {
	return s.collection.Count()
}
