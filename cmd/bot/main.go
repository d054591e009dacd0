package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liao/reply-bot/internal/ai"
	"github.com/liao/reply-bot/internal/bot"
	"github.com/liao/reply-bot/internal/capture"
	"github.com/liao/reply-bot/internal/chat"
	"github.com/liao/reply-bot/internal/config"
	"github.com/liao/reply-bot/internal/persona"
	"github.com/liao/reply-bot/internal/rag"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "run one cycle without generating or delivering replies")
	verbose := flag.Bool("verbose", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini 客户端，dry-run 不需要
	var gen bot.Generator
	var aiClient *ai.Client
	if !*dryRun {
		if err := cfg.RequireAPIKey(); err != nil {
			slog.Error("config invalid", "error", err)
			os.Exit(1)
		}
		aiClient, err = ai.NewClient(ctx,
			cfg.Gemini.APIKey,
			cfg.Gemini.ChatModels,
			cfg.Gemini.EmbeddingModel,
			cfg.Gemini.Temperature,
			cfg.Gemini.MaxOutputTokens,
			cfg.Gemini.RPMLimit,
		)
		if err != nil {
			slog.Error("create AI client failed", "error", err)
			os.Exit(1)
		}
		gen = aiClient
		slog.Info("AI client initialized", "models", cfg.Gemini.ChatModels)
	}

	// 跨采样状态
	state, err := chat.NewState(cfg.Bot.MaxHistoryTurns, cfg.Data.StateDir)
	if err != nil {
		slog.Error("create state failed", "error", err)
		os.Exit(1)
	}

	// 向量存储 + RAG，加载失败只是降级
	var ragPipeline *rag.Pipeline
	if aiClient != nil {
		store, err := rag.NewStore(cfg.RAG.VectorsDir, aiClient.EmbedFunc())
		if err != nil {
			slog.Warn("load vector store failed, RAG disabled", "error", err)
		} else {
			ragPipeline = rag.NewPipeline(store, cfg.RAG.TopK, cfg.RAG.MinSimilarity)
		}
	}

	// Persona
	var p *persona.Persona
	if cfg.Data.PersonaFile != "" {
		p, err = persona.LoadFromFile(cfg.Data.PersonaFile)
		if err != nil {
			slog.Warn("load persona failed, using config text only", "error", err)
		}
	}

	source := buildSource(cfg)
	sink := buildSink(cfg, *dryRun)

	b := bot.New(cfg, gen, state, ragPipeline, p, source, sink, *dryRun)

	// 优雅关闭
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		slog.Info("signal received, shutting down")
		cancel()
	}()

	if err := b.Run(ctx); err != nil {
		slog.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
}

func buildSource(cfg *config.Config) capture.Source {
	retryDelay := time.Duration(cfg.Capture.RetryDelayMs) * time.Millisecond
	switch cfg.Capture.Mode {
	case "command":
		return capture.NewCommandSource(cfg.Capture.Command, 30*time.Second)
	default:
		return capture.NewFileSource(cfg.Capture.File, cfg.Capture.Retries, retryDelay)
	}
}

func buildSink(cfg *config.Config, dryRun bool) capture.Sink {
	if !dryRun && cfg.Deliver.Mode == "command" {
		return capture.NewCommandSink(cfg.Deliver.Command)
	}
	return &capture.StdoutSink{W: os.Stdout}
}
