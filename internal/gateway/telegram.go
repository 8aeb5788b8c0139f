package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rahul/sahayak/internal/agent"
	"github.com/rahul/sahayak/internal/task"
)

// TelegramGateway turns Telegram messages into pipeline runs and replies
// with the result summary.
type TelegramGateway struct {
	Bot    *tgbotapi.BotAPI
	Runner Runner
}

func NewTelegramGateway(token string, runner Runner) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{Bot: bot, Runner: runner}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		channel := fmt.Sprintf("tg:%d", update.Message.Chat.ID)
		response := tg.handle(channel, update.Message.Text)

		msg := tgbotapi.NewMessage(update.Message.Chat.ID, response)
		if _, err := tg.Bot.Send(msg); err != nil {
			log.Printf("Error sending reply: %v", err)
		}
	}
	return nil
}

func (tg *TelegramGateway) handle(channel, command string) string {
	ex, err := tg.Runner.Run(context.Background(), channel, command, "")
	if err != nil {
		var pErr *task.PlanningError
		if errors.As(err, &pErr) {
			return "I couldn't map that to anything I know how to do. Try 'find ...', 'summarize ...' or 'search for ...'."
		}
		log.Printf("Error running command: %v", err)
		return "Something went wrong while running that command."
	}
	return agent.Summarize(ex)
}

func (tg *TelegramGateway) Send(channel string, text string) error {
	idStr := channel
	if len(idStr) > 3 && idStr[:3] == "tg:" {
		idStr = idStr[3:]
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid telegram channel: %s", channel)
	}

	msg := tgbotapi.NewMessage(id, text)
	_, err = tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
