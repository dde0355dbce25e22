package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-dns-assistant/internal/application"
	"telegram-dns-assistant/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":        r.handleStartCommand,
		"help":         r.handleStartCommand,
		"analyze":      r.handleAnalyzeCommand,
		"health":       r.handleHealthCommand,
		"systemstatus": r.handleSystemStatusCommand,

		"history": r.adminOnly(r.handleHistoryCommand),
	}
}

func (r *RealTelegramBotAdapter) dispatchCommand(ctx context.Context, msg *tgbotapi.Message) error {
	handler, ok := r.commandRoutes()[msg.Command()]
	if !ok {
		metrics.IncBotCommand(msg.Command(), "unknown")
		return r.SendMessage(ctx, msg.Chat.ID, "Unknown command. Try /help.")
	}
	if !r.allowed(ctx, msg.From.ID, msg.Command()) {
		metrics.IncBotCommand(msg.Command(), "rate_limited")
		return r.SendMessage(ctx, msg.Chat.ID, "Too many requests, please slow down.")
	}
	metrics.IncBotCommand(msg.Command(), "accepted")
	return handler(ctx, msg)
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if _, isAdmin := r.adminIDsMap[message.From.ID]; !isAdmin {
			return r.SendMessage(ctx, message.Chat.ID, "This command is restricted to administrators.")
		}
		return next(ctx, message)
	}
}

const helpText = `I analyze DNS zones with UltraDNS data.

/analyze <zone> [zone ...] - export zones and review them
/health <zone> [zone ...] - run zone health checks
/systemstatus - summarize the UltraDNS status page
/history [zone] - recent analysis history (admins)

Send me any other message and I will treat it as a DNS question.`

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, msg *tgbotapi.Message) error {
	return r.SendMessage(ctx, msg.Chat.ID, helpText)
}

func (r *RealTelegramBotAdapter) handleAnalyzeCommand(ctx context.Context, msg *tgbotapi.Message) error {
	zones := application.SplitZoneArgs(msg.CommandArguments())
	if len(zones) == 0 {
		return r.SendMessage(ctx, msg.Chat.ID, "Usage: /analyze <zone> [zone ...]")
	}
	if err := r.SendMessage(ctx, msg.Chat.ID, "Analyzing, this can take a few minutes..."); err != nil {
		return err
	}
	report, err := r.facade.HandleAnalyzeZones(ctx, zones, r.sender(ctx, msg.Chat.ID))
	if err != nil {
		return r.SendMessage(ctx, msg.Chat.ID, "Error: "+err.Error())
	}
	return r.SendMessage(ctx, msg.Chat.ID, report)
}

func (r *RealTelegramBotAdapter) handleHealthCommand(ctx context.Context, msg *tgbotapi.Message) error {
	zones := application.SplitZoneArgs(msg.CommandArguments())
	if len(zones) == 0 {
		return r.SendMessage(ctx, msg.Chat.ID, "Usage: /health <zone> [zone ...]")
	}
	if err := r.SendMessage(ctx, msg.Chat.ID, "Running health checks, this can take a few minutes..."); err != nil {
		return err
	}
	report, err := r.facade.HandleHealthCheck(ctx, zones, r.sender(ctx, msg.Chat.ID))
	if err != nil {
		return r.SendMessage(ctx, msg.Chat.ID, "Error: "+err.Error())
	}
	return r.SendMessage(ctx, msg.Chat.ID, report)
}

func (r *RealTelegramBotAdapter) handleSystemStatusCommand(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := r.facade.HandleSystemStatus(ctx)
	if err != nil {
		return r.SendMessage(ctx, msg.Chat.ID, "Error: "+err.Error())
	}
	return r.SendMessage(ctx, msg.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleHistoryCommand(ctx context.Context, msg *tgbotapi.Message) error {
	zones := application.SplitZoneArgs(msg.CommandArguments())
	zone := ""
	if len(zones) > 0 {
		zone = zones[0]
	}
	text, err := r.facade.HandleHistory(ctx, zone, 10)
	if err != nil {
		return r.SendMessage(ctx, msg.Chat.ID, "Error: "+err.Error())
	}
	return r.SendMessage(ctx, msg.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleQuestion(ctx context.Context, msg *tgbotapi.Message) error {
	if !r.allowed(ctx, msg.From.ID, "question") {
		return r.SendMessage(ctx, msg.Chat.ID, "Too many requests, please slow down.")
	}
	answer, err := r.facade.HandleQuestion(ctx, msg.Text)
	if err != nil {
		return r.SendMessage(ctx, msg.Chat.ID, "Error during assistant run: "+err.Error())
	}
	return r.SendMessage(ctx, msg.Chat.ID, answer)
}

// sender adapts SendMessage into the facade's streaming callback.
func (r *RealTelegramBotAdapter) sender(ctx context.Context, chatID int64) application.SendFunc {
	return func(text string) {
		if err := r.SendMessage(ctx, chatID, text); err != nil {
			r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
		}
	}
}
