package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
)

// Recognized command tokens.
const (
	cmdStart = "/start"
	cmdForm  = "/form"
	cmdShop  = "/shop"
	cmdHelp  = "/help"
)

const helpText = `Доступні команди:
/start — головне меню та кнопки сайту
/shop — замовити сайт через міні-додаток
/form — залишити заявку
/help — це повідомлення`

type commandReply struct {
	text     string
	keyboard models.ReplyMarkup
}

// commandTable builds the static command dispatch table. Button URLs come
// from configuration; nothing here carries state.
func commandTable(cfg config.Config) map[string]commandReply {
	shopButton := models.KeyboardButton{
		Text:   "Замовити сайт",
		WebApp: &models.WebAppInfo{URL: cfg.WebAppURL},
	}
	formButton := models.KeyboardButton{
		Text:   "Залишити заявку",
		WebApp: &models.WebAppInfo{URL: cfg.FormURL()},
	}

	return map[string]commandReply{
		cmdStart: {
			text:     "Заходьте на наш сайт!",
			keyboard: replyKeyboard([][]models.KeyboardButton{{shopButton, formButton}}),
		},
		cmdShop: {
			text:     "Оформіть замовлення у міні-додатку:",
			keyboard: replyKeyboard([][]models.KeyboardButton{{shopButton}}),
		},
		cmdForm: {
			text:     "Заповніть форму заявки:",
			keyboard: replyKeyboard([][]models.KeyboardButton{{formButton}}),
		},
		cmdHelp: {
			text: helpText,
		},
	}
}

func replyKeyboard(rows [][]models.KeyboardButton) models.ReplyMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}
