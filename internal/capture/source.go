// Package capture 负责转录文本的采集和回复的投递，是归属引擎之外的外围协作者。
// 真正的屏幕/剪贴板操作交给用户自己的脚本，这里只管文件和外部命令两种通道。
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source 一次轮询采样的转录来源
type Source interface {
	Capture(ctx context.Context) (string, error)
}

// FileSource 每次轮询重读同一个转录文件。抓取脚本可能还没写完文件，
// 读到空内容时按配置重试几次。
type FileSource struct {
	path       string
	retries    int
	retryDelay time.Duration
}

func NewFileSource(path string, retries int, retryDelay time.Duration) *FileSource {
	if retries < 1 {
		retries = 1
	}
	return &FileSource{path: path, retries: retries, retryDelay: retryDelay}
}

func (s *FileSource) Capture(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		data, err := os.ReadFile(s.path)
		if err == nil && strings.TrimSpace(string(data)) != "" {
			return string(data), nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("transcript file is empty")
		}
		slog.Debug("empty transcript sample, retrying", "attempt", attempt, "retries", s.retries)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	return "", fmt.Errorf("capture transcript: %w", lastErr)
}

// Watch 用 fsnotify 监听转录文件变化，让轮询循环在文件更新时提前醒来。
// 返回的 channel 在 ctx 取消后关闭；监听失败时调用方退回纯轮询即可。
func (s *FileSource) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// 监听目录而不是文件本身：很多编辑器/脚本用重命名方式落盘
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					select {
					case ch <- struct{}{}:
					default: // 已有待处理信号
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("transcript watch error", "error", err)
			}
		}
	}()
	return ch, nil
}

// CommandSource 执行用户配置的抓取命令，stdout 即一次转录采样
type CommandSource struct {
	command string
	timeout time.Duration
}

func NewCommandSource(command string, timeout time.Duration) *CommandSource {
	return &CommandSource{command: command, timeout: timeout}
}

func (s *CommandSource) Capture(ctx context.Context) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := exec.CommandContext(ctx, "sh", "-c", s.command).Output()
	if err != nil {
		return "", fmt.Errorf("run capture command: %w", err)
	}
	return string(out), nil
}
