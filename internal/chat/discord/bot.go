// Package discord connects the command dispatcher to a Discord bot account.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/observability"
)

// maxMessageLen is Discord's limit for a single message body.
const maxMessageLen = 2000

// Handler executes one chat line on behalf of requester.
type Handler interface {
	Handle(ctx context.Context, requester, text string, out command.Responder) (bool, error)
}

type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot answers attendance commands posted in Discord channels.
type Bot struct {
	token    string
	channels map[string]bool
	handler  Handler
	logger   *slog.Logger
}

// New creates a Bot. An empty channels list lets the bot answer everywhere.
func New(token string, channels []string, handler Handler, logger *slog.Logger) *Bot {
	allowed := make(map[string]bool, len(channels))
	for _, id := range channels {
		allowed[id] = true
	}
	return &Bot{token: token, channels: allowed, handler: handler, logger: logger}
}

// Run connects to Discord and serves messages until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.token == "" {
		return fmt.Errorf("discord token is empty: set discord.token or DISCORD_TOKEN")
	}
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return err
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected to discord", "user", r.User.String(), "guilds", len(r.Guilds))
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.handleMessage(ctx, s.State.User.ID, s, m.Message)
	})

	if err := dg.Open(); err != nil {
		return err
	}
	defer dg.Close()

	b.logger.Info("bot is running", "channels", len(b.channels))
	<-ctx.Done()
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, selfID string, sender messageSender, m *discordgo.Message) {
	if m.Author == nil || m.Author.ID == selfID || m.Author.Bot {
		return
	}
	if len(b.channels) > 0 && !b.channels[m.ChannelID] {
		return
	}

	out := command.ResponderFunc(func(_ context.Context, text string) error {
		for _, part := range splitMessage(text, maxMessageLen) {
			if _, err := sender.ChannelMessageSend(m.ChannelID, part); err != nil {
				return err
			}
		}
		return nil
	})
	if m.ID != "" {
		ctx = observability.ContextWithRequestID(ctx, m.ID)
	}
	if _, err := b.handler.Handle(ctx, m.Author.Username, m.Content, out); err != nil {
		b.logger.Error("failed to reply", "channel", m.ChannelID, "message", m.ID, "error", err)
	}
}

const fence = "```"

// splitMessage breaks text into chunks of at most limit bytes, cutting at
// line boundaries where possible and never inside a UTF-8 sequence. A fenced
// block is re-fenced in every chunk.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	if limit > 2*len(fence) && len(text) >= 2*len(fence) &&
		strings.HasPrefix(text, fence) && strings.HasSuffix(text, fence) {
		parts := splitLines(text[len(fence):len(text)-len(fence)], limit-2*len(fence))
		for i, p := range parts {
			parts[i] = fence + p + fence
		}
		return parts
	}
	return splitLines(text, limit)
}

func splitLines(text string, limit int) []string {
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := runeCut(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// runeCut returns the largest index <= limit that starts a rune in s.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}
