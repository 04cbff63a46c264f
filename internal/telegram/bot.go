package telegram

import (
	"fmt"
	"path/filepath"
	"strings"

	"go-vagas-scraper/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the bot needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// formatRun builds the MarkdownV2 summary of a finished run.
func formatRun(run models.Run) string {
	msgText := fmt.Sprintf("✅ *%d vagas* coletadas\n", run.Count)
	msgText += fmt.Sprintf("🕒 %s\n", escapeMarkdown(run.Timestamp))
	msgText += fmt.Sprintf("🔎 %d páginas de busca\n", len(run.URLs))
	if run.JSONFile != "" {
		msgText += fmt.Sprintf("📁 %s\n", escapeMarkdown(filepath.Base(run.JSONFile)))
	}
	if run.XLSXFile != "" {
		msgText += fmt.Sprintf("📊 %s\n", escapeMarkdown(filepath.Base(run.XLSXFile)))
	}
	return msgText
}

func (b *Bot) SendRun(run models.Run) error {
	msg := tgbotapi.NewMessage(b.chatID, formatRun(run))
	msg.ParseMode = "MarkdownV2"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

// SendStatus sends message as plain text.
func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, message)
	_, err := b.api.Send(msg)
	return err
}
