package main

import (
	"context"
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"
)

// initDiscordRPC publishes a presence with the current zone and profile
// count, refreshed every half minute.
func initDiscordRPC(ctx context.Context, t *tracker) {
	if gs.DiscordAppID == "" {
		logError("discord rpc: no application id configured")
		return
	}
	if err := client.Login(gs.DiscordAppID); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	now := time.Now()
	update := func() {
		zone := t.cls.Zone()
		if zone == "" {
			zone = "No zone"
		}
		if err := client.SetActivity(client.Activity{
			State:   zone,
			Details: fmt.Sprintf("Tracking %d profiles", t.agg.Len()),
			Timestamps: &client.Timestamps{
				Start: &now,
			},
		}); err != nil {
			logError("discord rpc activity: %v", err)
		}
	}
	update()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				client.Logout()
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}
