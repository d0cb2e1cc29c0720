// Package lead handles contact form submissions arriving through Telegram
// web_app_data updates.
package lead

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/domain"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/feature/followup"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

type sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type scheduler interface {
	Schedule(chatID int64) *followup.Task
}

// Handler acknowledges a lead submission to the user, forwards it to the
// operator chat, and schedules the delayed follow-up.
type Handler struct {
	sender         sender
	followUps      scheduler
	operatorChatID int64
	logger         *logrus.Entry
}

// NewHandler constructs a Handler targeting the configured operator chat.
func NewHandler(s sender, followUps scheduler, operatorChatID int64, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Handler{
		sender:         s,
		followUps:      followUps,
		operatorChatID: operatorChatID,
		logger:         logger,
	}
}

// Handle processes one embedded payload. A malformed payload aborts before
// any send. The user acknowledgment and the operator forward are each
// best-effort: a failure is logged and does not stop the other, and neither
// failure reaches the caller. The follow-up runs detached; Handle returns
// without awaiting it.
func (h *Handler) Handle(ctx context.Context, chatID int64, payload string) {
	entry := h.logger.WithFields(logging.Fields{
		"event":   "lead_received",
		"chat_id": chatID,
	})

	parsed, err := domain.ParseLead(payload)
	if err != nil {
		entry.WithError(err).Error("discarding malformed web-app payload")
		return
	}

	entry.Info("received lead submission")

	ack := fmt.Sprintf("Дякую за зворотній зв'язок! Ваш chatId: %d", chatID)
	if err := h.sender.SendMessage(ctx, chatID, ack); err != nil {
		h.logger.WithFields(logging.Fields{
			"event":   "lead_ack_failed",
			"chat_id": chatID,
		}).WithError(err).Error("failed to acknowledge lead to user")
	}

	forward := fmt.Sprintf("Нова заявка: %s, %s, %s", parsed.Email, parsed.PhoneNumber, parsed.Name)
	if err := h.sender.SendMessage(ctx, h.operatorChatID, forward); err != nil {
		h.logger.WithFields(logging.Fields{
			"event":   "lead_forward_failed",
			"chat_id": chatID,
		}).WithError(err).Error("failed to forward lead to operator")
	}

	h.followUps.Schedule(chatID)
}
