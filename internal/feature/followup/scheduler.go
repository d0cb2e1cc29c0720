// Package followup sends the delayed informational message after a lead
// submission.
package followup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

const sendTimeout = 10 * time.Second

type sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Scheduler fires a one-shot timer per invocation and sends a fixed
// follow-up message when it elapses. Timers are detached: nothing awaits
// them, nothing persists them, and a process exit before firing loses them.
type Scheduler struct {
	sender sender
	logger *logrus.Entry
	delay  time.Duration
	text   string
}

// NewScheduler constructs a Scheduler using the configured delay, support
// handle, and homepage URL.
func NewScheduler(s sender, cfg config.Config, logger *logrus.Entry) *Scheduler {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Scheduler{
		sender: s,
		logger: logger,
		delay:  cfg.FollowUpDelay,
		text: fmt.Sprintf(
			"Всю інформацію Ви отримаєте у цьому чаті: %s, а поки наш менеджер займається обробкою Вашої заявки, завітайте на наш сайт! %s",
			cfg.SupportHandle, cfg.HomepageURL),
	}
}

// Task is the handle for one scheduled follow-up. It exists so a future
// caller can cancel or await the send; today the lead handler discards it.
type Task struct {
	timer *time.Timer

	mu   sync.Mutex
	done chan struct{}
}

// Done is closed once the follow-up fired (successfully or not) or was
// canceled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel stops the timer if it has not fired yet and reports whether the
// send was prevented.
func (t *Task) Cancel() bool {
	stopped := t.timer.Stop()
	if stopped {
		t.finish()
	}
	return stopped
}

func (t *Task) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

// Schedule arms a timer for the configured delay and returns its handle
// immediately. Each invocation is independent: two submissions from the same
// chat inside the delay window produce two follow-ups. A send failure is
// logged and terminal; there is no retry.
func (s *Scheduler) Schedule(chatID int64) *Task {
	task := &Task{done: make(chan struct{})}

	task.timer = time.AfterFunc(s.delay, func() {
		defer task.finish()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := s.sender.SendMessage(ctx, chatID, s.text); err != nil {
			s.logger.WithFields(logging.Fields{
				"event":   "followup_failed",
				"chat_id": chatID,
			}).WithError(err).Error("failed to send follow-up message")
			return
		}

		s.logger.WithFields(logging.Fields{
			"event":   "followup_sent",
			"chat_id": chatID,
		}).Info("sent follow-up message")
	})

	s.logger.WithFields(logging.Fields{
		"event":   "followup_scheduled",
		"chat_id": chatID,
		"delay":   s.delay.String(),
	}).Debug("scheduled follow-up message")

	return task
}
