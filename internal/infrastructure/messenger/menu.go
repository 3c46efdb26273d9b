package messenger

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"fanout-agent/internal/usecase/dispatch"
)

// DefaultMenu is the two-button menu whose postback actions the dispatcher
// understands.
func DefaultMenu() *messaging_api.RichMenuRequest {
	return &messaging_api.RichMenuRequest{
		Size:        &messaging_api.RichMenuSize{Width: 2500, Height: 843},
		Selected:    true,
		Name:        "fanout-agent-menu",
		ChatBarText: "Menu",
		Areas: []messaging_api.RichMenuArea{
			{
				Bounds: &messaging_api.RichMenuBounds{X: 0, Y: 0, Width: 1250, Height: 843},
				Action: &messaging_api.PostbackAction{Data: dispatch.ActionHelp, DisplayText: "Help"},
			},
			{
				Bounds: &messaging_api.RichMenuBounds{X: 1250, Y: 0, Width: 1250, Height: 843},
				Action: &messaging_api.PostbackAction{Data: dispatch.ActionAbout, DisplayText: "About"},
			},
		},
	}
}

// CreateRichMenu registers the menu and returns its platform id.
func (c *Client) CreateRichMenu(_ context.Context, menu *messaging_api.RichMenuRequest) (string, error) {
	created, err := c.api.CreateRichMenu(menu)
	if err != nil {
		return "", fmt.Errorf("create rich menu: %w", err)
	}
	if created.RichMenuId == "" {
		return "", fmt.Errorf("create rich menu: empty id in response")
	}
	return created.RichMenuId, nil
}

// SetDefaultRichMenu makes the menu the default for every user.
func (c *Client) SetDefaultRichMenu(_ context.Context, menuID string) error {
	if _, err := c.api.SetDefaultRichMenu(menuID); err != nil {
		return fmt.Errorf("set default rich menu: %w", err)
	}
	return nil
}
