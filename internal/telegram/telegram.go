// Package telegram hosts the Telegram client, update dispatch, and the
// command table.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

type botAPI interface {
	Start(ctx context.Context)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerWebAppQuery(ctx context.Context, params *bot.AnswerWebAppQueryParams) (*models.SentWebAppMessage, error)
}

var (
	defaultAllowedUpdates = bot.AllowedUpdates{
		"message",
	}

	createBot = func(token string, options ...bot.Option) (botAPI, error) {
		return bot.New(token, options...)
	}
)

// WebAppDataFunc receives the originating chat id and the raw embedded
// payload of a web_app_data update.
type WebAppDataFunc func(ctx context.Context, chatID int64, payload string)

// Client wraps the Telegram bot instance and exposes the outbound primitives
// the rest of the relay sends through.
type Client struct {
	bot          botAPI
	logger       *logrus.Entry
	commands     map[string]commandReply
	onWebAppData WebAppDataFunc
}

// NewClient initializes the Telegram bot with long polling and the relay's
// update dispatch.
func NewClient(cfg config.Config, logger *logrus.Entry) (*Client, error) {
	if strings.TrimSpace(cfg.TelegramToken) == "" {
		return nil, errors.New("telegram token is required")
	}
	if logger == nil {
		logger = logging.Logger()
	}

	client := &Client{
		logger:   logger,
		commands: commandTable(cfg),
	}

	tgBot, err := createBot(cfg.TelegramToken,
		bot.WithAllowedUpdates(defaultAllowedUpdates),
		bot.WithDefaultHandler(client.handleUpdate),
		bot.WithErrorsHandler(errorHandler(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot client: %w", err)
	}

	client.bot = tgBot
	return client, nil
}

// OnWebAppData registers the handler invoked for embedded web-app payloads.
// Must be called before Start; the dispatch table is read-only afterwards.
func (c *Client) OnWebAppData(fn WebAppDataFunc) {
	c.onWebAppData = fn
}

// Start begins receiving updates via long polling until the context is canceled.
func (c *Client) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.logger.WithFields(logging.Fields{
		"event":           "telegram_listen",
		"allowed_updates": defaultAllowedUpdates,
	}).Info("starting telegram long polling")

	c.bot.Start(ctx)

	c.logger.WithField("event", "telegram_stopped").Info("telegram polling stopped")
}

// SendMessage delivers a plain text message to the given chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendMessageWithKeyboard delivers a text message together with a reply
// keyboard (used by the command handlers to expose web-app buttons).
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// AnswerWebAppQuery answers the pending inline query produced by a web-app
// submission. Telegram accepts exactly one answer per query id; a second
// attempt or an attempt after the acknowledgment window fails.
func (c *Client) AnswerWebAppQuery(ctx context.Context, queryID string, result models.InlineQueryResult) error {
	_, err := c.bot.AnswerWebAppQuery(ctx, &bot.AnswerWebAppQueryParams{
		WebAppQueryID: queryID,
		Result:        result,
	})
	if err != nil {
		return fmt.Errorf("answer web-app query %s: %w", queryID, err)
	}
	return nil
}

// handleUpdate is the single entry point for the platform-serialized update
// stream. Command text and an embedded payload are checked independently;
// one message can trigger both paths.
func (c *Client) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	c.logger.WithFields(logging.Fields{
		"event":   "telegram_update",
		"chat_id": chatID,
		"text":    text,
	}).Debug("telegram update received")

	if reply, ok := c.commands[text]; ok {
		c.dispatchCommand(ctx, chatID, text, reply)
	}

	if msg.WebAppData != nil && msg.WebAppData.Data != "" {
		if c.onWebAppData == nil {
			c.logger.WithFields(logging.Fields{
				"event":   "web_app_data_dropped",
				"chat_id": chatID,
			}).Warn("web-app payload received but no handler is registered")
			return
		}
		c.onWebAppData(ctx, chatID, msg.WebAppData.Data)
	}
}

func (c *Client) dispatchCommand(ctx context.Context, chatID int64, command string, reply commandReply) {
	var err error
	if reply.keyboard != nil {
		err = c.SendMessageWithKeyboard(ctx, chatID, reply.text, reply.keyboard)
	} else {
		err = c.SendMessage(ctx, chatID, reply.text)
	}

	if err != nil {
		c.logger.WithFields(logging.Fields{
			"event":   "command_reply_failed",
			"chat_id": chatID,
			"command": command,
		}).WithError(err).Error("failed to reply to command")
		return
	}

	c.logger.WithFields(logging.Fields{
		"event":   "command_handled",
		"chat_id": chatID,
		"command": command,
	}).Info("replied to command")
}

func errorHandler(logger *logrus.Entry) bot.ErrorsHandler {
	if logger == nil {
		logger = logging.Logger()
	}

	return func(err error) {
		if err == nil {
			return
		}

		logger.WithField("event", "telegram_error").WithError(err).Error("telegram polling error")
	}
}
