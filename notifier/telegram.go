package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Channel delivers a formatted message to the outside world
type Channel interface {
	Send(ctx context.Context, text string) error
}

// TelegramChannel sends messages through the Telegram Bot API. It is
// constructed once at process start and passed by reference to the
// dispatcher, never reconstructed mid-run.
type TelegramChannel struct {
	http    *resty.Client
	token   string
	chatID  string
	enabled bool
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func NewTelegramChannel(token, chatID string) *TelegramChannel {
	enabled := token != "" && chatID != ""
	if !enabled {
		log.Println("⚠️  Telegram bot token not configured. Notifications disabled.")
	}

	return &TelegramChannel{
		http:    resty.New().SetTimeout(15 * time.Second),
		token:   token,
		chatID:  chatID,
		enabled: enabled,
	}
}

// Send posts one message to the configured chat
func (t *TelegramChannel) Send(ctx context.Context, text string) error {
	if !t.enabled {
		return fmt.Errorf("telegram channel is not configured")
	}

	var result telegramResponse
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		SetResult(&result).
		Post(fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}
	if resp.IsError() || !result.OK {
		return fmt.Errorf("telegram rejected message: status %d %s", resp.StatusCode(), result.Description)
	}
	return nil
}
