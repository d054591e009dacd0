package bot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"google.golang.org/genai"

	"github.com/liao/reply-bot/internal/ai"
	"github.com/liao/reply-bot/internal/capture"
	"github.com/liao/reply-bot/internal/chat"
	"github.com/liao/reply-bot/internal/config"
	"github.com/liao/reply-bot/internal/persona"
	"github.com/liao/reply-bot/internal/transcript"
)

// Generator 回复生成器，生产实现是 ai.Client
type Generator interface {
	GenerateReply(ctx context.Context, systemPrompt string, history []*genai.Content, transcript string) (string, error)
}

// Retriever 历史示例检索，生产实现是 rag.Pipeline
type Retriever interface {
	Retrieve(ctx context.Context, incoming string) ([]string, error)
}

type Bot struct {
	cfg     *config.Config
	gen     Generator
	state   *chat.State
	rag     Retriever
	persona *persona.Persona
	source  capture.Source
	sink    capture.Sink
	dryRun  bool
}

func New(cfg *config.Config, gen Generator, state *chat.State, retriever Retriever, p *persona.Persona, source capture.Source, sink capture.Sink, dryRun bool) *Bot {
	return &Bot{
		cfg:     cfg,
		gen:     gen,
		state:   state,
		rag:     retriever,
		persona: p,
		source:  source,
		sink:    sink,
		dryRun:  dryRun,
	}
}

// Run 轮询循环：抓取转录 → 归属 → 判断新消息 → 跳过或回复。
// dry-run 只跑一轮。文件来源会额外监听文件变化，更新时提前醒来。
func (b *Bot) Run(ctx context.Context) error {
	interval := time.Duration(b.cfg.Bot.PollIntervalMs) * time.Millisecond

	var wake <-chan struct{}
	if fs, ok := b.source.(*capture.FileSource); ok {
		ch, err := fs.Watch(ctx)
		if err != nil {
			slog.Warn("transcript watch unavailable, polling only", "error", err)
		} else {
			wake = ch
		}
	}

	slog.Info("bot starting", "poll_interval", interval, "dry_run", b.dryRun)

	b.poll(ctx)
	if b.dryRun {
		return b.state.Save()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return b.state.Save()
		case <-ticker.C:
		case _, ok := <-wake:
			if !ok {
				wake = nil // 监听结束，退回纯轮询
				continue
			}
		}
		b.poll(ctx)
	}
}

// poll 处理一次转录采样
func (b *Bot) poll(ctx context.Context) {
	raw, err := b.source.Capture(ctx)
	if err != nil {
		slog.Warn("capture failed, will retry next cycle", "error", err)
		return
	}

	att := transcript.Attribute(raw, b.cfg.Bot.MyName)
	if !att.Found() {
		slog.Debug("no attributable message in sample")
		return
	}
	if att.Message == b.state.LastSeen() {
		return
	}
	b.state.SetLastSeen(att.Message)

	if att.Sender == transcript.SenderSelf {
		slog.Info("last message is ours, skipping reply")
		b.saveState()
		return
	}
	b.reply(ctx, raw, att.Message)
}

// reply 为新到的消息生成并投递回复，整段原始转录交给模型做上下文
func (b *Bot) reply(ctx context.Context, raw, incoming string) {
	slog.Info("new message detected", "message", incoming)
	b.state.AddIncoming(incoming)

	if b.gen == nil {
		slog.Info("dry-run: reply generation skipped")
		b.saveState()
		return
	}

	var examples []string
	if b.rag != nil {
		var err error
		examples, err = b.rag.Retrieve(ctx, incoming)
		if err != nil {
			slog.Error("RAG retrieve failed", "error", err)
		}
	}

	styleText, businessText := "", ""
	if b.persona != nil {
		styleText = b.persona.FormatStyleForPrompt()
		businessText = b.persona.FormatBusinessForPrompt()
	}
	systemPrompt := ai.BuildSystemPrompt(b.cfg.Persona.Text, styleText, businessText, examples)

	history := b.state.History()
	// 最后一条是刚记录的来信，作为本轮输入传，不放进历史
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	reply, err := b.gen.GenerateReply(ctx, systemPrompt, history, raw)
	if err != nil {
		slog.Error("generate reply failed, retrying without history", "error", err)
		reply, err = b.gen.GenerateReply(ctx, systemPrompt, nil, raw)
		if err != nil {
			slog.Error("fallback also failed, sending canned reply", "error", err)
			reply = b.fallbackReply()
		}
	}
	reply = ai.SanitizeReply(reply)

	for i, part := range ai.SplitMultiMessage(reply) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.randomDelay()):
			}
		}
		if err := b.sink.Deliver(ctx, part); err != nil {
			slog.Error("deliver failed", "error", err)
			return
		}
	}
	slog.Info("reply delivered", "length", len(reply))

	b.state.AddReply(reply)
	b.saveState()
}

func (b *Bot) saveState() {
	if err := b.state.Save(); err != nil {
		slog.Error("save state failed", "error", err)
	}
}

// fallbackReply 模型彻底不可用时的兜底确认回复
func (b *Bot) fallbackReply() string {
	fallbacks := []string{
		"Thanks for reaching out! We've received your message and will get back to you shortly.",
		"Thank you for your message, we'll reply as soon as possible.",
	}
	if b.persona != nil && len(b.persona.Style.GreetingExamples) > 0 {
		fallbacks = b.persona.Style.GreetingExamples
	}
	return fallbacks[rand.IntN(len(fallbacks))]
}

func (b *Bot) randomDelay() time.Duration {
	minMs := b.cfg.Bot.ReplyDelayMinMs
	maxMs := b.cfg.Bot.ReplyDelayMaxMs
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}
	ms := minMs + rand.IntN(maxMs-minMs)
	return time.Duration(ms) * time.Millisecond
}
