// Package checkout answers pending web-app queries with purchase receipts.
package checkout

import (
	"context"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/domain"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

// Telegram keeps a web-app query pending for a short window only; the answer
// call is bounded so the HTTP handler can never outlive it.
const defaultAnswerTimeout = 10 * time.Second

const (
	successTitle = "Успішна купівля"
	failureTitle = "Невдала купівля"
)

type queryAnswerer interface {
	AnswerWebAppQuery(ctx context.Context, queryID string, result models.InlineQueryResult) error
}

// Service acknowledges an order against its pending web-app query.
type Service struct {
	answerer      queryAnswerer
	logger        *logrus.Entry
	answerTimeout time.Duration
}

// NewService constructs a checkout Service.
func NewService(answerer queryAnswerer, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Service{
		answerer:      answerer,
		logger:        logger,
		answerTimeout: defaultAnswerTimeout,
	}
}

// Acknowledge answers the order's pending query with the success receipt.
// On failure it makes one best-effort attempt to answer with a failure
// receipt instead; that second attempt is expected to fail when the query
// already expired or was already answered, and its error is only logged.
// The first error is returned so the HTTP boundary can report it.
func (s *Service) Acknowledge(ctx context.Context, order domain.Order) error {
	answerCtx, cancel := context.WithTimeout(ctx, s.answerTimeout)
	defer cancel()

	err := s.answerer.AnswerWebAppQuery(answerCtx, order.QueryID, article(order.QueryID, successTitle, order.Receipt()))
	if err == nil {
		s.logger.WithFields(logging.Fields{
			"event":    "checkout_acknowledged",
			"query_id": order.QueryID,
			"total":    domain.FormatAmount(order.TotalPrice),
		}).Info("answered web-app query")
		return nil
	}

	s.logger.WithFields(logging.Fields{
		"event":    "checkout_answer_failed",
		"query_id": order.QueryID,
	}).WithError(err).Error("failed to answer web-app query")

	fallbackCtx, cancelFallback := context.WithTimeout(context.WithoutCancel(ctx), s.answerTimeout)
	defer cancelFallback()

	if fallbackErr := s.answerer.AnswerWebAppQuery(fallbackCtx, order.QueryID, article(order.QueryID, failureTitle, order.FailureReceipt())); fallbackErr != nil {
		s.logger.WithFields(logging.Fields{
			"event":    "checkout_fallback_failed",
			"query_id": order.QueryID,
		}).WithError(fallbackErr).Debug("failure receipt rejected as well")
	}

	return err
}

func article(queryID, title, text string) models.InlineQueryResult {
	return &models.InlineQueryResultArticle{
		ID:    queryID,
		Title: title,
		InputMessageContent: &models.InputTextMessageContent{
			MessageText: text,
		},
	}
}
