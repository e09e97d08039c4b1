package bot

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "Доступные команды:\n" +
	"/start - настроить профиль\n" +
	"/edit - изменить профиль\n" +
	"/result - показать дневную статистику\n" +
	"/export - выгрузить дневник за сегодня в Excel"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	// "/start@food_daily_bot что-то" -> "/start"
	command := strings.ToLower(strings.Fields(msg.Text)[0])
	command = strings.SplitN(command, "@", 2)[0]

	start := time.Now()
	if b.metrics != nil {
		b.metrics.CommandsProcessed.Inc()
		defer func() {
			b.metrics.CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
		}()
	}

	log.Printf("[Bot] Processing %s command for user %d", command, userID)

	switch command {
	case "/start":
		if err := b.startWizard(ctx, userID, chatID,
			"Добро пожаловать в FoodDaily бот! Давайте настроим ваш профиль для расчета КБЖУ."); err != nil {
			log.Printf("[Bot] Error starting wizard for user %d: %v", userID, err)
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.sendMessage(chatID, "Что-то пошло не так, попробуйте еще раз.")
		}

	case "/edit":
		if err := b.startWizard(ctx, userID, chatID,
			"Обновим ваш профиль. Прежний профиль будет перезаписан после прохождения анкеты."); err != nil {
			log.Printf("[Bot] Error restarting wizard for user %d: %v", userID, err)
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.sendMessage(chatID, "Что-то пошло не так, попробуйте еще раз.")
		}

	case "/result":
		b.handleResultCommand(ctx, userID, chatID)

	case "/export":
		b.handleExportCommand(ctx, userID, chatID)

	default:
		log.Printf("[Bot] Unknown command from user %d: %q", userID, msg.Text)
		b.sendMessage(chatID, fmt.Sprintf("🤷‍♂️ Сорян, я не знаю команды %q\n\n%s", msg.Text, helpText))
	}
}

// handleResultCommand показывает съеденное за сегодня и прогресс к целям профиля.
func (b *Bot) handleResultCommand(ctx context.Context, userID, chatID int64) {
	profile, err := b.profiles.GetProfile(ctx, userID)
	if err != nil {
		log.Printf("[KV] Error reading profile for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Что-то пошло не так, попробуйте еще раз.")
		return
	}
	if profile == nil {
		b.sendMessage(chatID, "Для начала работы, пожалуйста, используйте команду /start для создания профиля.")
		return
	}

	stats, err := b.ledger.Today(ctx, userID)
	if err != nil {
		log.Printf("[KV] Error reading ledger for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Что-то пошло не так, попробуйте еще раз.")
		return
	}
	if stats == nil {
		b.sendMessage(chatID, "У вас пока нет записей о питании на сегодня.")
		return
	}

	var foodList strings.Builder
	for i, entry := range stats.Entries {
		foodList.WriteString(fmt.Sprintf("%d. %s - %.0f ккал\n", i+1, entry.Description, entry.Calories))
	}

	b.sendMessage(chatID, fmt.Sprintf(
		"*Итоги питания за %s*\n\n%s\n*Всего за день:*\n"+
			"🔥 Калории: %.0f / %d ккал (%d%%)\n"+
			"🥩 Белки: %.0f / %d г (%d%%)\n"+
			"🧈 Жиры: %.0f / %d г (%d%%)\n"+
			"🍚 Углеводы: %.0f / %d г (%d%%)",
		stats.Date, foodList.String(),
		stats.TotalCalories, profile.TDEE, percentOf(stats.TotalCalories, profile.TDEE),
		stats.TotalProtein, profile.Protein, percentOf(stats.TotalProtein, profile.Protein),
		stats.TotalFat, profile.Fat, percentOf(stats.TotalFat, profile.Fat),
		stats.TotalCarbs, profile.Carbs, percentOf(stats.TotalCarbs, profile.Carbs)))
}

func percentOf(value float64, target int) int {
	if target == 0 {
		return 0
	}
	return int(math.Round(value / float64(target) * 100))
}
