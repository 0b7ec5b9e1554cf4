package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mkazlouski/adwatch/internal/logging"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages to a single chat via the Telegram Bot API
// sendMessage endpoint.
type TelegramNotifier struct {
	token   string
	chatID  int64
	apiBase string
	client  *http.Client
	logger  logging.Logger
}

var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier for the given bot token and chat,
// with a bounded per-send timeout.
func NewTelegramNotifier(token string, chatID int64, timeout time.Duration) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: timeout},
		logger:  logging.Get().Named("telegram"),
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Send posts one sendMessage call. Exactly one attempt is made; the caller
// decides whether a lost message matters.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode sendMessage payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Telegram API: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode Telegram API response (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API rejected message (status %d): %s", resp.StatusCode, result.Description)
	}

	n.logger.Debug("Notification sent", "chars", len(text))
	return nil
}
