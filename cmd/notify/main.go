// Command notify follows the live flash stream and forwards each item to a
// messaging channel via an external CLI.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
)

func main() {
	var (
		serviceURL    = flag.String("url", "http://localhost:8765", "Service base URL")
		target        = flag.String("target", "", "Target user or group id (required)")
		channel       = flag.String("channel", "feishu", "Notification channel (feishu/telegram/discord)")
		importantOnly = flag.Bool("important", false, "Only forward items marked important")
		command       = flag.String("command", "openclaw", "Messaging CLI to invoke")
	)
	flag.Parse()

	if *target == "" {
		log.Fatal("Target required (--target)")
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Following flash stream", "url", *serviceURL, "channel", *channel, "target", *target, "important_only", *importantOnly)

	if err := follow(ctx, *serviceURL, func(flash flashEvent) {
		if *importantOnly && !flash.Important {
			return
		}
		if err := notify(ctx, *command, *channel, *target, formatMessage(flash)); err != nil {
			slog.Error("Failed to send notification", "error", err)
			return
		}
		slog.Info("Notification sent", "title", flash.Title, "time", flash.Time)
	}); err != nil && ctx.Err() == nil {
		log.Fatalf("Stream failed: %v", err)
	}
}

type flashEvent struct {
	Time      string `json:"time"`
	Important bool   `json:"important"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// follow consumes the SSE stream and invokes handle for each flash event.
// It returns when the stream ends or the context is cancelled.
func follow(ctx context.Context, serviceURL string, handle func(flashEvent)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(serviceURL, "/")+"/events", nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	var eventType string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if eventType != "flash" {
				continue
			}
			var flash flashEvent
			if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &flash); err != nil {
				slog.Warn("Skipping malformed flash event", "error", err)
				continue
			}
			handle(flash)
		case line == "":
			eventType = ""
		}
	}
	return scanner.Err()
}

func formatMessage(flash flashEvent) string {
	marker := ""
	if flash.Important {
		marker = "🔴 "
	}
	return fmt.Sprintf("%s【快讯】%s\n\n%s\n\n%s", marker, flash.Title, flash.Content, flash.Time)
}

func notify(ctx context.Context, command, channel, target, message string) error {
	cmd := exec.CommandContext(ctx, command,
		"message", "send",
		"--channel", channel,
		"--target", target,
		"--message", message,
	)
	return cmd.Run()
}
