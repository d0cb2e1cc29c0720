package webserver

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/domain"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

// webDataRequest is the only contract that must stay bit-exact for the
// embedded web-app. totalPrice is a pointer so that an explicit zero passes
// required validation while an absent field does not.
type webDataRequest struct {
	QueryID    string           `json:"queryId" validate:"required"`
	Products   []productPayload `json:"products" validate:"omitempty,dive"`
	TotalPrice *float64         `json:"totalPrice" validate:"required"`
}

type productPayload struct {
	Title string `json:"title" validate:"required"`
}

func (s *Server) handleLanding(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Welcome to the Telegram Bot API!",
		"homepage":  s.cfg.HomepageURL,
		"webAppUrl": s.cfg.WebAppURL,
	})
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

// handleWebData validates the checkout callback and answers the pending
// web-app query before responding. Validation failures never reach Telegram;
// an answer failure is the only path that produces a 500 here.
func (s *Server) handleWebData(c fiber.Ctx) error {
	var req webDataRequest
	if err := c.Bind().Body(&req); err != nil {
		s.logger.WithFields(logging.Fields{
			"event": "web_data_bind_failed",
		}).WithError(err).Warn("rejecting unreadable web-data body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validate.Struct(req); err != nil {
		s.logger.WithFields(logging.Fields{
			"event":    "web_data_validation_failed",
			"query_id": req.QueryID,
		}).WithError(err).Warn("rejecting invalid web-data body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed"})
	}

	order := domain.Order{
		QueryID:    req.QueryID,
		TotalPrice: *req.TotalPrice,
		Products:   make([]domain.Product, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		order.Products = append(order.Products, domain.Product{Title: p.Title})
	}

	if err := s.checkout.Acknowledge(c.Context(), order); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}
