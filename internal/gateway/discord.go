package gateway

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rahul/sahayak/internal/agent"
	"github.com/rahul/sahayak/internal/task"
)

// DiscordGateway runs commands sent as Discord messages. Only messages
// addressed with the "!do " prefix are treated as commands, so the bot can
// sit in shared channels.
type DiscordGateway struct {
	Session *discordgo.Session
	Runner  Runner
}

const discordCommandPrefix = "!do "

func NewDiscordGateway(token string, runner Runner) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	g := &DiscordGateway{Session: session, Runner: runner}
	session.AddHandler(g.onMessage)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	return g, nil
}

func (d *DiscordGateway) Start() error {
	return d.Session.Open()
}

func (d *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot {
		return
	}
	command, ok := strings.CutPrefix(m.Content, discordCommandPrefix)
	if !ok {
		return
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	log.Printf("[discord:%s] %s", m.Author.Username, command)

	channel := "dc:" + m.ChannelID
	response := d.handle(channel, command)

	if _, err := s.ChannelMessageSend(m.ChannelID, response); err != nil {
		log.Printf("Error sending discord reply: %v", err)
	}
}

func (d *DiscordGateway) handle(channel, command string) string {
	ex, err := d.Runner.Run(context.Background(), channel, command, "")
	if err != nil {
		var pErr *task.PlanningError
		if errors.As(err, &pErr) {
			return "I couldn't map that to anything I know how to do. Try '!do find ...' or '!do summarize ...'."
		}
		log.Printf("Error running command: %v", err)
		return "Something went wrong while running that command."
	}
	return agent.Summarize(ex)
}

func (d *DiscordGateway) Send(channel string, text string) error {
	id := strings.TrimPrefix(channel, "dc:")
	_, err := d.Session.ChannelMessageSend(id, text)
	return err
}

func (d *DiscordGateway) Stop() error {
	return d.Session.Close()
}
