package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Capture CaptureConfig `mapstructure:"capture"`
	Deliver DeliverConfig `mapstructure:"deliver"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	RAG     RAGConfig     `mapstructure:"rag"`
	Data    DataConfig    `mapstructure:"data"`
	Persona PersonaConfig `mapstructure:"persona"`
}

type BotConfig struct {
	MyName          string `mapstructure:"my_name"`
	PollIntervalMs  int    `mapstructure:"poll_interval_ms"`
	ReplyDelayMinMs int    `mapstructure:"reply_delay_min_ms"`
	ReplyDelayMaxMs int    `mapstructure:"reply_delay_max_ms"`
	MaxHistoryTurns int    `mapstructure:"max_history_turns"`
}

type CaptureConfig struct {
	Mode         string `mapstructure:"mode"` // "file" / "command"
	File         string `mapstructure:"file"`
	Command      string `mapstructure:"command"`
	Retries      int    `mapstructure:"retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
}

type DeliverConfig struct {
	Mode    string `mapstructure:"mode"` // "stdout" / "command"
	Command string `mapstructure:"command"`
}

type GeminiConfig struct {
	APIKey          string   `mapstructure:"api_key"`
	ChatModels      []string `mapstructure:"chat_models"`
	EmbeddingModel  string   `mapstructure:"embedding_model"`
	Temperature     float32  `mapstructure:"temperature"`
	MaxOutputTokens int32    `mapstructure:"max_output_tokens"`
	RPMLimit        int      `mapstructure:"rpm_limit"`
}

type RAGConfig struct {
	VectorsDir    string  `mapstructure:"vectors_dir"`
	TopK          int     `mapstructure:"top_k"`
	MinSimilarity float32 `mapstructure:"min_similarity"`
}

type DataConfig struct {
	StateDir    string `mapstructure:"state_dir"`
	PersonaFile string `mapstructure:"persona_file"`
}

type PersonaConfig struct {
	Text string `mapstructure:"text"`
}

const defaultPersona = `You are the owner's auto-reply assistant on Facebook Messenger.
Your job is to reply instantly to new messages, acknowledge the sender politely,
set a clear response-time expectation and keep replies short, professional and human.
Use the sender's first name if available. Do not sound robotic, do not promise instant
human support, do not ask more than one question and never request sensitive information.`

// defaultSettings 内置默认配置，用户文件通过 MergeMaps 深合并覆盖在它上面
func defaultSettings() map[string]any {
	return map[string]any{
		"bot": map[string]any{
			"my_name":            "",
			"poll_interval_ms":   2000,
			"reply_delay_min_ms": 800,
			"reply_delay_max_ms": 2500,
			"max_history_turns":  20,
		},
		"capture": map[string]any{
			"mode":           "file",
			"file":           "transcript.txt",
			"command":        "",
			"retries":        3,
			"retry_delay_ms": 300,
		},
		"deliver": map[string]any{
			"mode":    "stdout",
			"command": "",
		},
		"gemini": map[string]any{
			"api_key":           "",
			"chat_models":       []any{"gemini-2.0-flash"},
			"embedding_model":   "text-embedding-004",
			"temperature":       0.7,
			"max_output_tokens": 512,
			"rpm_limit":         10,
		},
		"rag": map[string]any{
			"vectors_dir":    "./data/vectors",
			"top_k":          5,
			"min_similarity": 0.35,
		},
		"data": map[string]any{
			"state_dir":    "./data/state",
			"persona_file": "",
		},
		"persona": map[string]any{
			"text": defaultPersona,
		},
	}
}

// Load 读取配置文件并深合并到默认值上。文件不存在时只用默认值（和环境变量）。
func Load(path string) (*Config, error) {
	settings := defaultSettings()

	if _, err := os.Stat(path); err == nil {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		settings = MergeMaps(settings, v.AllSettings())
	}

	merged := viper.New()
	if err := merged.MergeConfigMap(settings); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}

	// 环境变量覆盖
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		merged.Set("gemini.api_key", key)
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		merged.Set("gemini.chat_models", []string{model})
	}
	if persona := os.Getenv("BOT_PERSONA"); persona != "" {
		merged.Set("persona.text", persona)
	}

	var cfg Config
	if err := merged.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RequireAPIKey 非 dry-run 启动前校验密钥
func (c *Config) RequireAPIKey() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required (set in config or GEMINI_API_KEY env)")
	}
	return nil
}
