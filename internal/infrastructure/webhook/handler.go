// Package webhook receives platform events, hands text messages to the
// pipeline and everything else to the fixed-notice dispatcher, and delivers
// exactly one reply per event. Signature verification and event parsing
// are the SDK's; nothing runs on an unverified body.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"fanout-agent/internal/application/port/input"
	"fanout-agent/internal/application/port/output"
	"fanout-agent/internal/usecase/dispatch"
)

const (
	// SignatureHeader carries the body HMAC set by the platform.
	SignatureHeader = "X-Line-Signature"

	unsupportedTypeNotice = "I can only read text messages for now."
)

type Handler struct {
	pipeline  input.PipelineRunner
	messenger output.MessengerPort
	secret    string
	logger    output.LoggerPort
}

func NewHandler(pipeline input.PipelineRunner, messenger output.MessengerPort, secret string, logger output.LoggerPort) *Handler {
	return &Handler{
		pipeline:  pipeline,
		messenger: messenger,
		secret:    secret,
		logger:    logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	callback, err := webhook.ParseRequest(h.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Webhook signature rejected")
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		h.logger.Error("Webhook parse failed", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	for _, ev := range callback.Events {
		h.handleEvent(r.Context(), ev)
	}

	w.WriteHeader(http.StatusOK)
}

// handleEvent produces the single reply for one event. Reply delivery
// failures are logged and swallowed: the platform retries nothing, and a
// failed delivery must not fail the whole batch.
func (h *Handler) handleEvent(ctx context.Context, ev webhook.EventInterface) {
	var replyToken, text string

	switch e := ev.(type) {
	case webhook.MessageEvent:
		replyToken = e.ReplyToken
		if message, ok := e.Message.(webhook.TextMessageContent); ok {
			text = h.pipeline.Reply(ctx, message.Text).Text
		} else {
			text = unsupportedTypeNotice
		}
	case webhook.PostbackEvent:
		if e.Postback == nil {
			return
		}
		replyToken = e.ReplyToken
		text = dispatch.Postback(e.Postback.Data)
	default:
		// Follow/join/etc. have no reply semantics here.
		h.logger.Debug("Ignoring event without reply semantics", "type", fmt.Sprintf("%T", ev))
		return
	}

	if err := h.messenger.Reply(ctx, replyToken, text); err != nil {
		h.logger.Error("Reply delivery failed", "error", err)
	}
}
