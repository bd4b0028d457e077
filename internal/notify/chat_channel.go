package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"doorcraft_backend/platform/config"
	"doorcraft_backend/platform/logger"
)

// ChatChannel posts notifications to a chat webhook (Google Chat / Slack
// compatible "text" payload).
type ChatChannel struct {
	webhookURL string
	http       *http.Client
	log        *logger.Logger
}

type chatWebhookRequest struct {
	Text string `json:"text"`
}

// NewChatChannel returns nil when no webhook URL is configured.
func NewChatChannel(cfg config.NotifyConfig, log *logger.Logger) *ChatChannel {
	if cfg.GetChatWebhookURL() == "" {
		return nil
	}

	return &ChatChannel{
		webhookURL: cfg.GetChatWebhookURL(),
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (c *ChatChannel) Name() string { return "chat" }

func (c *ChatChannel) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(chatWebhookRequest{Text: formatChatText(n)})
	if err != nil {
		return fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat webhook request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("chat notification sent", "heading", n.Heading)
	return nil
}

func formatChatText(n Notification) string {
	var b strings.Builder
	b.WriteString("*" + n.Heading + "*\n")
	b.WriteString(n.Message)
	for _, detail := range n.Details {
		b.WriteString("\n• " + detail)
	}
	if n.ActionURL != "" {
		b.WriteString("\n" + n.ActionURL)
	}
	return b.String()
}
