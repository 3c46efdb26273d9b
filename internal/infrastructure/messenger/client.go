// Package messenger is the messaging-platform delivery side: reply
// messages against one-shot reply tokens, plus rich-menu provisioning.
// The wire contract lives in the official SDK.
package messenger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"fanout-agent/internal/application/port/output"
)

var _ output.MessengerPort = (*Client)(nil)

type Client struct {
	api    *messaging_api.MessagingApiAPI
	logger output.LoggerPort
}

type Config struct {
	Token   string
	BaseURL string
	Logger  output.LoggerPort
}

func DefaultConfig(token string) Config {
	return Config{
		Token:   token,
		BaseURL: "https://api.line.me",
	}
}

func NewClient(cfg Config) (*Client, error) {
	// The SDK API has no per-call context; the client timeout is the only
	// bound on a delivery call.
	api, err := messaging_api.NewMessagingApiAPI(
		cfg.Token,
		messaging_api.WithEndpoint(cfg.BaseURL),
		messaging_api.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("create messaging client: %w", err)
	}

	return &Client{
		api:    api,
		logger: cfg.Logger,
	}, nil
}

// Reply sends exactly one text message against the event's reply token.
func (c *Client) Reply(_ context.Context, replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("Reply delivered", "textLen", len(text))
	}
	return nil
}
