package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/daoverse/src/api/data"
)

// Monitor tails the governance event stream and posts one embed per event
// to the configured channel.
type Monitor struct {
	session   *discordgo.Session
	rdb       *redis.Client
	channelID string
	lastID    string
}

func NewMonitor(session *discordgo.Session, rdb *redis.Client, channelID string) *Monitor {
	return &Monitor{session: session, rdb: rdb, channelID: channelID, lastID: "$"}
}

func (m *Monitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping event monitor")
			return
		default:
		}

		streams, err := m.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{data.StreamEvents, m.lastID},
			Block:   5 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading event stream: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				m.lastID = msg.ID
				if err := m.postEvent(msg.Values); err != nil {
					log.Printf("Error posting event %s: %v", msg.ID, err)
				}
			}
		}
	}
}

var eventTitles = map[string]string{
	"registry.init":     "Platform initialized",
	"dao.create":        "New DAO created",
	"member.join":       "New member joined",
	"proposal.create":   "New proposal",
	"vote.cast":         "Vote cast",
	"proposal.finalize": "Proposal finalized",
	"reward.claim":      "Reward claimed",
}

func (m *Monitor) postEvent(values map[string]interface{}) error {
	op, _ := values["op"].(string)
	title := eventTitles[op]
	if title == "" {
		title = op
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(values))
	for k, v := range values {
		if k == "op" {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   k,
			Value:  fmt.Sprintf("%v", v),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     0x0099ff,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Via Daoverse"},
		Fields:    fields,
	}

	_, err := m.session.ChannelMessageSendEmbed(m.channelID, embed)
	return err
}
