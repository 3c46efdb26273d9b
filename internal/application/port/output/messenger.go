package output

import "context"

// MessengerPort delivers exactly one reply per inbound event, addressed by
// the platform's one-shot reply token.
type MessengerPort interface {
	Reply(ctx context.Context, replyToken, text string) error
}
