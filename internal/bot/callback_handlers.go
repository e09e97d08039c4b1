package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleCallbackQuery обрабатывает нажатие инлайн-кнопки. Кнопки анкеты
// несут тот же смысл, что и текстовый ответ, и проходят через ту же
// функцию перехода.
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil {
		log.Printf("[Bot] Callback %s without sender, ignoring", callback.ID)
		return
	}
	data := callback.Data
	userID := callback.From.ID

	// Отвечаем на callback сразу, чтобы убрать "часики"
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.tg.Request(callbackConfig); err != nil {
		log.Printf("[Bot] Error answering callback %s: %v", callback.ID, err)
	}

	if callback.Message == nil {
		log.Printf("[Bot] Callback %s without message, ignoring", callback.ID)
		return
	}
	chatID := callback.Message.Chat.ID

	if !strings.HasPrefix(data, "wizard:") {
		log.Printf("[Bot] Unknown callback data from user %d: %q", userID, data)
		return
	}

	// "wizard:gender:male" -> "male", "wizard:activity:moderate" -> "moderate"
	payload := strings.TrimPrefix(data, "wizard:")
	if i := strings.IndexByte(payload, ':'); i >= 0 {
		payload = payload[i+1:]
	}

	handled, err := b.processWizard(ctx, userID, chatID, payload)
	if err != nil {
		log.Printf("[Bot] Wizard callback error for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Что-то пошло не так, попробуйте еще раз.")
		return
	}
	if !handled {
		// Кнопка от старой анкеты: сессии уже нет
		b.sendMessage(chatID, "Анкета не активна. Используйте /start, чтобы настроить профиль.")
	}
}
