package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/liao/reply-bot/internal/ai"
	"github.com/liao/reply-bot/internal/parser"
	"github.com/liao/reply-bot/internal/rag"
)

// 把导出的历史聊天记录灌进向量库，bot 运行时用来检索"本人真实回复过什么"。
func main() {
	inputFile := flag.String("input", "", "chat history export (.txt/.html/.jsonl/.enc)")
	vectorsDir := flag.String("output", "./data/vectors", "vector store directory")
	myName := flag.String("me", "", "my display name in the export")
	targetName := flag.String("target", "them", "other party's display name")
	apiKey := flag.String("api-key", "", "Gemini API key (or GEMINI_API_KEY env)")
	embedModel := flag.String("embed-model", "text-embedding-004", "embedding model")
	format := flag.String("format", "auto", "input format: text, html, jsonl, enc-jsonl, auto")
	decryptKey := flag.String("decrypt-key", "", "password for .enc files (or DECRYPT_KEY env)")
	userIsMe := flag.Bool("user-is-me", true, "in JSONL, role=user is me")
	gapMinutes := flag.Int("gap", 30, "minutes of silence that split conversations")
	verbose := flag.Bool("verbose", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if *inputFile == "" || *myName == "" {
		fmt.Fprintln(os.Stderr, "Usage: data-importer -input <file> -me <name> [-target <name>] [-decrypt-key <key>]")
		os.Exit(1)
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: Gemini API key required (-api-key or GEMINI_API_KEY env)")
		os.Exit(1)
	}

	ctx := context.Background()

	conversations, err := parseExport(*inputFile, *format, *myName, *targetName, *decryptKey, *userIsMe, *gapMinutes)
	if err != nil {
		slog.Error("parse export failed", "error", err)
		os.Exit(1)
	}
	if len(conversations) == 0 {
		slog.Error("no conversations found in export")
		os.Exit(1)
	}
	slog.Info("export parsed", "conversations", len(conversations))

	// embedding 客户端（只用 Embed，chat 模型无所谓）
	client, err := ai.NewClient(ctx, key, []string{"unused"}, *embedModel, 0, 1, 60)
	if err != nil {
		slog.Error("create AI client failed", "error", err)
		os.Exit(1)
	}

	store, err := rag.NewStore(*vectorsDir, client.EmbedFunc())
	if err != nil {
		slog.Error("open vector store failed", "error", err)
		os.Exit(1)
	}

	examples := make([]rag.Example, 0, len(conversations))
	for i, conv := range conversations {
		examples = append(examples, rag.Example{
			ID:       fmt.Sprintf("conv-%04d", i),
			Exchange: conv.FormatAsExample(*myName, *targetName),
			Turns:    len(conv.Messages),
		})
	}

	slog.Info("embedding conversations", "count", len(examples))
	if err := store.AddExamples(ctx, examples); err != nil {
		slog.Error("add examples failed", "error", err)
		os.Exit(1)
	}
	slog.Info("import complete", "total", store.Count(), "dir", *vectorsDir)
}

func parseExport(path, format, myName, targetName, decryptKey string, userIsMe bool, gapMinutes int) ([]parser.Conversation, error) {
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".enc":
			format = "enc-jsonl"
		case ".jsonl":
			format = "jsonl"
		case ".html", ".htm":
			format = "html"
		default:
			format = "text"
		}
	}
	slog.Info("parsing chat history", "file", path, "format", format)

	switch format {
	case "enc-jsonl":
		if decryptKey == "" {
			decryptKey = os.Getenv("DECRYPT_KEY")
		}
		if decryptKey == "" {
			return nil, fmt.Errorf("decrypt key required for .enc files")
		}
		plaintext, err := parser.DecryptFile(path, decryptKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt: %w", err)
		}
		defer func() {
			// 清掉内存里的明文
			for i := range plaintext {
				plaintext[i] = 0
			}
		}()
		return parser.ParseJSONLToConversations(plaintext, myName, targetName, userIsMe)

	case "jsonl":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return parser.ParseJSONLToConversations(data, myName, targetName, userIsMe)

	case "html":
		messages, err := parser.ParseHTMLFile(path, myName)
		if err != nil {
			return nil, err
		}
		return parser.SplitConversations(parser.FilterTextOnly(messages), gapMinutes), nil

	case "text":
		messages, err := parser.ParseTextFile(path, myName)
		if err != nil {
			return nil, err
		}
		return parser.SplitConversations(parser.FilterTextOnly(messages), gapMinutes), nil

	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
