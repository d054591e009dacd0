package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Sink 回复的投递通道
type Sink interface {
	Deliver(ctx context.Context, reply string) error
}

// StdoutSink 把回复打到标准输出，dry-run 或手动复制粘贴时用
type StdoutSink struct {
	W io.Writer
}

func (s *StdoutSink) Deliver(_ context.Context, reply string) error {
	_, err := fmt.Fprintln(s.W, reply)
	return err
}

// CommandSink 把回复通过 stdin 交给用户配置的投递命令（比如 xdotool 脚本）
type CommandSink struct {
	command string
}

func NewCommandSink(command string) *CommandSink {
	return &CommandSink{command: command}
}

func (s *CommandSink) Deliver(ctx context.Context, reply string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", s.command)
	cmd.Stdin = strings.NewReader(reply)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run deliver command: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}
