package telegram

import (
	"errors"
	"testing"

	"go-vagas-scraper/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		r.sent = append(r.sent, msg)
	}
	return tgbotapi.Message{}, r.err
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `vagas 2024\-04\-22 13\-05\-09\.json`, escapeMarkdown("vagas 2024-04-22 13-05-09.json"))
	assert.Equal(t, `\(x\) \[y\] \*z\*`, escapeMarkdown("(x) [y] *z*"))
}

func TestBot_SendRun(t *testing.T) {
	rec := &recordingSender{}
	bot := &Bot{api: rec, chatID: 42}

	err := bot.SendRun(models.Run{
		Timestamp: "2024-04-22 13-05-09",
		URLs:      []string{"u1", "u2"},
		Count:     7,
		JSONFile:  "/out/vagas 2024-04-22 13-05-09.json",
		XLSXFile:  "/out/vagas 2024-04-22 13-05-09.xlsx",
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	msg := rec.sent[0]
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "MarkdownV2", msg.ParseMode)
	assert.Contains(t, msg.Text, "*7 vagas*")
	assert.Contains(t, msg.Text, "2 páginas")
	assert.Contains(t, msg.Text, `vagas 2024\-04\-22 13\-05\-09\.xlsx`)
	assert.NotContains(t, msg.Text, "/out/")
}

func TestBot_SendError(t *testing.T) {
	rec := &recordingSender{err: errors.New("429 Too Many Requests")}
	bot := &Bot{api: rec, chatID: 42}

	err := bot.SendError(errors.New("navigation failed"))
	assert.EqualError(t, err, "429 Too Many Requests")
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "❌ Error: navigation failed", rec.sent[0].Text)
}

func TestBot_SendStatus(t *testing.T) {
	rec := &recordingSender{}
	bot := &Bot{api: rec, chatID: 42}

	require.NoError(t, bot.SendStatus("🚀 iniciando busca (2 páginas)"))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, int64(42), rec.sent[0].ChatID)
	assert.Equal(t, "🚀 iniciando busca (2 páginas)", rec.sent[0].Text)
	assert.Empty(t, rec.sent[0].ParseMode)
}
