package alerts

import (
	"fmt"
	"html"
	"log/slog"

	"github.com/musinov501/havas-api-clone/internal/lib/logger/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alerter шлет оповещения об ошибках в Telegram-канал, не блокируя запрос.
// Падение доставки логируется и никогда не попадает в ответ клиенту.
type Alerter struct {
	log       *slog.Logger
	bot       *tgbotapi.BotAPI
	channelID int64
}

func New(log *slog.Logger, botToken string, channelID int64) (*Alerter, error) {
	const op = "alerts.New"

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Alerter{log: log, bot: bot, channelID: channelID}, nil
}

// Alert отправляет сообщение в отдельной горутине
func (a *Alerter) Alert(message string, err error, remoteIP string) {
	if a == nil || a.bot == nil {
		return
	}

	text := fmt.Sprintf(
		"❌ <b>Exception Alert</b> ❌\n\n"+
			"<b>✍️ Message:</b> <code>%s</code>\n\n"+
			"<b>🔖 Error:</b> <code>%s</code>\n\n"+
			"<b>🌐 IP Address:</b> <code>%s</code>\n\n",
		html.EscapeString(message),
		html.EscapeString(errText(err)),
		html.EscapeString(remoteIP),
	)

	go a.send(text)
}

func (a *Alerter) send(text string) {
	msg := tgbotapi.NewMessage(a.channelID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := a.bot.Send(msg); err != nil {
		a.log.Error("failed to send alert to telegram", sl.Err(err))
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
