// Command menu provisions the default rich menu: it creates the two-button
// menu the postback dispatcher understands and sets it as the default for
// all users. Run once per channel.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fanout-agent/internal/infrastructure/env"
	"fanout-agent/internal/infrastructure/messenger"
)

func main() {
	envService := env.NewEnvService()

	client, err := messenger.NewClient(messenger.DefaultConfig(envService.MustGet("CHANNEL_TOKEN")))
	if err != nil {
		log.Fatalf("create messenger client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	menuID, err := client.CreateRichMenu(ctx, messenger.DefaultMenu())
	if err != nil {
		log.Fatalf("create rich menu: %v", err)
	}

	if err := client.SetDefaultRichMenu(ctx, menuID); err != nil {
		log.Fatalf("set default rich menu: %v", err)
	}

	fmt.Printf("Rich menu %s provisioned and set as default\n", menuID)
}
