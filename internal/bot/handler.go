package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/serz/food-daily-bot/internal/config"
	"github.com/serz/food-daily-bot/internal/domain"
	"github.com/serz/food-daily-bot/internal/ledger"
	"github.com/serz/food-daily-bot/internal/models"
)

// Минимальная длина описания блюда (в рунах, после обрезки пробелов).
// Короче — запрос к сервису оценки не выполняется вовсе.
const minFoodDescriptionLen = 3

// sender — часть API tgbotapi, используемая ботом. В тестах подменяется.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Estimator превращает текстовое описание блюда в оценку КБЖУ.
type Estimator interface {
	Estimate(ctx context.Context, description string) (*models.FoodEntry, error)
}

type Bot struct {
	api       *tgbotapi.BotAPI
	tg        sender
	config    *config.Config
	profiles  domain.ProfileRepository
	sessions  domain.SessionRepository
	ledger    *ledger.Aggregator
	estimator Estimator
	metrics   *Metrics
}

type Repositories interface {
	domain.ProfileRepository
	domain.SessionRepository
}

func New(cfg *config.Config, repos Repositories, agg *ledger.Aggregator, est Estimator, metrics *Metrics) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	botAPI.Debug = cfg.Telegram.Debug

	return &Bot{
		api:       botAPI,
		tg:        botAPI,
		config:    cfg,
		profiles:  repos,
		sessions:  repos,
		ledger:    agg,
		estimator: est,
		metrics:   metrics,
	}, nil
}

// Start запускает long polling. Используется, когда webhook не настроен.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("[Bot] Authorized on account %s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
}

// HandleUpdate обрабатывает одно входящее событие. Всё межсобытийное
// состояние живет в хранилище и читается заново на каждом событии.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	if b.metrics != nil {
		b.metrics.UpdatesProcessed.Inc()
		defer func() {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}()
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		log.Printf("[Bot] No message in update %d", update.UpdateID)
		return
	}

	b.handleMessage(ctx, update.Message)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	text := msg.Text
	log.Printf("[Bot] Received message from user %d: %q", userID, text)

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, msg)
		return
	}

	// Не команда — возможно, пользователь отвечает на вопрос анкеты
	handled, err := b.processWizard(ctx, userID, msg.Chat.ID, text)
	if err != nil {
		log.Printf("[Bot] Wizard error for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(msg.Chat.ID, "Что-то пошло не так, попробуйте еще раз.")
		return
	}
	if handled {
		return
	}

	b.handleFoodDescription(ctx, msg)
}

// handleFoodDescription обрабатывает свободный текст как описание блюда.
func (b *Bot) handleFoodDescription(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	description := strings.TrimSpace(msg.Text)

	if utf8.RuneCountInString(description) < minFoodDescriptionLen {
		b.sendMessage(chatID, "Опишите блюдо подробнее, например: \"борщ со сметаной\" или \"овсянка с бананом\".")
		return
	}

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
		log.Printf("[Bot] User %d has no profile, sending instructions", userID)
		b.sendMessage(chatID, "Для начала работы, пожалуйста, используйте команду /start для создания профиля.")
		return
	}

	// Промежуточное сообщение, пока идет запрос к сервису оценки
	b.sendMessage(chatID, "Анализирую ваше блюдо...")

	estimationStart := time.Now()
	entry, err := b.estimator.Estimate(ctx, description)
	if b.metrics != nil {
		b.metrics.EstimationDuration.Observe(time.Since(estimationStart).Seconds())
	}
	if err != nil {
		log.Printf("[Bot] Failed to analyze food for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.EstimationsTotal.WithLabelValues("failed").Inc()
		}
		b.sendMessage(chatID, "😔 Сорян, не удалось проанализировать это блюдо. Возможно, оно неизвестное для меня. Либо что-то пошло не так под капотом.")
		return
	}

	// Блюда с нулевой калорийностью в дневник не попадают
	if entry.Calories == 0 {
		log.Printf("[Bot] Zero-calorie food detected, not saving to diary: %q", description)
		if b.metrics != nil {
			b.metrics.EstimationsTotal.WithLabelValues("zero_calories").Inc()
		}
		b.sendMessage(chatID, entrySummary(entry)+"\n\n😁 Ну и зачем мне это записывать? Воздух калорий не имеет! В дневник не добавляю.")
		return
	}

	if b.metrics != nil {
		b.metrics.EstimationsTotal.WithLabelValues("ok").Inc()
	}

	// Ошибка записи в дневник не блокирует ответ пользователю
	if _, err := b.ledger.RecordEntry(ctx, userID, *entry); err != nil {
		log.Printf("[KV] Error saving food entry for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.LedgerWriteErrors.Inc()
		}
	}

	b.sendMessage(chatID, entrySummary(entry)+"\n\nДанные сохранены в вашем дневнике питания.")
}

func entrySummary(entry *models.FoodEntry) string {
	return fmt.Sprintf("*%s*\n\n🔥 Калории: %.0f ккал\n🥩 Белки: %.0f г\n🧈 Жиры: %.0f г\n🍚 Углеводы: %.0f г",
		entry.Description, entry.Calories, entry.Protein, entry.Fat, entry.Carbs)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		log.Printf("[Bot] Error sending message to chat %d: %v", chatID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
}

func (b *Bot) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tg.Send(msg); err != nil {
		log.Printf("[Bot] Error sending message with keyboard to chat %d: %v", chatID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
}
