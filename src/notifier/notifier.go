package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/stake-plus/daoverse/src/api/data"
)

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func main() {
	token := getenv("DISCORD_TOKEN", "")
	channelID := getenv("DISCORD_CHANNEL_ID", "")
	redisURL := getenv("REDIS_URL", "redis://127.0.0.1:6379/0")

	rdb := data.MustRedis(redisURL)

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	if err := dg.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}
	defer dg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewMonitor(dg, rdb, channelID)
	go monitor.Run(ctx)
	log.Printf("Daoverse notifier watching %s", data.StreamEvents)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
}
