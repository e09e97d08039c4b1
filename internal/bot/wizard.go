package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/serz/food-daily-bot/internal/domain"
	"github.com/serz/food-daily-bot/internal/models"
	"github.com/serz/food-daily-bot/internal/nutrition"
)

// startWizard создает новую сессию анкеты с первого шага. Существующая
// сессия пользователя перезаписывается: активная анкета всегда одна.
func (b *Bot) startWizard(ctx context.Context, userID, chatID int64, intro string) error {
	session := &models.WizardSession{Step: models.StepGender}
	if err := b.sessions.SaveSession(ctx, userID, session); err != nil {
		return fmt.Errorf("save wizard session: %w", err)
	}

	b.sendMessageWithKeyboard(chatID, intro+"\n\nУкажите ваш пол (м/ж):", genderKeyboard())
	return nil
}

// processWizard выполняет один переход анкеты по входному тексту.
// Возвращает false, если активной сессии нет и ввод должен обрабатываться
// дальше по общей цепочке.
func (b *Bot) processWizard(ctx context.Context, userID, chatID int64, input string) (bool, error) {
	session, err := b.sessions.GetSession(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrCorrupted) {
			return false, err
		}
		// Нечитаемую сессию удаляем, чтобы она не блокировала пользователя:
		// признаком завершенной настройки служит профиль, а не сессия.
		log.Printf("[Bot] Dropping corrupted wizard session for user %d: %v", userID, err)
		if delErr := b.sessions.DeleteSession(ctx, userID); delErr != nil {
			return false, delErr
		}
		return false, nil
	}
	if session == nil {
		return false, nil
	}

	switch session.Step {
	case models.StepGender:
		return true, b.wizardGenderStep(ctx, userID, chatID, session, input)
	case models.StepAge:
		return true, b.wizardAgeStep(ctx, userID, chatID, session, input)
	case models.StepHeight:
		return true, b.wizardHeightStep(ctx, userID, chatID, session, input)
	case models.StepWeight:
		return true, b.wizardWeightStep(ctx, userID, chatID, session, input)
	case models.StepActivity:
		return true, b.wizardActivityStep(ctx, userID, chatID, session, input)
	default:
		log.Printf("[Bot] Unknown wizard step %q for user %d, dropping session", session.Step, userID)
		if err := b.sessions.DeleteSession(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
}

func (b *Bot) wizardGenderStep(ctx context.Context, userID, chatID int64, session *models.WizardSession, input string) error {
	gender, ok := parseGender(input)
	if !ok {
		b.sendMessage(chatID, `Пожалуйста, введите "м" для мужского пола или "ж" для женского.`)
		return nil
	}

	session.PartialProfile.Gender = gender
	session.Step = models.StepAge
	if err := b.sessions.SaveSession(ctx, userID, session); err != nil {
		return err
	}
	b.sendMessage(chatID, "Введите ваш возраст (лет):")
	return nil
}

func (b *Bot) wizardAgeStep(ctx context.Context, userID, chatID int64, session *models.WizardSession, input string) error {
	age, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || age < 10 || age > 100 {
		b.sendMessage(chatID, "Пожалуйста, введите корректный возраст от 10 до 100 лет.")
		return nil
	}

	session.PartialProfile.Age = age
	session.Step = models.StepHeight
	if err := b.sessions.SaveSession(ctx, userID, session); err != nil {
		return err
	}
	b.sendMessage(chatID, "Введите ваш рост (см):")
	return nil
}

func (b *Bot) wizardHeightStep(ctx context.Context, userID, chatID int64, session *models.WizardSession, input string) error {
	height, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || height < 100 || height > 250 {
		b.sendMessage(chatID, "Пожалуйста, введите корректный рост от 100 до 250 см.")
		return nil
	}

	session.PartialProfile.Height = height
	session.Step = models.StepWeight
	if err := b.sessions.SaveSession(ctx, userID, session); err != nil {
		return err
	}
	b.sendMessage(chatID, "Введите ваш вес (кг):")
	return nil
}

func (b *Bot) wizardWeightStep(ctx context.Context, userID, chatID int64, session *models.WizardSession, input string) error {
	weight, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || weight < 30 || weight > 300 {
		b.sendMessage(chatID, "Пожалуйста, введите корректный вес от 30 до 300 кг.")
		return nil
	}

	session.PartialProfile.Weight = weight
	session.Step = models.StepActivity
	if err := b.sessions.SaveSession(ctx, userID, session); err != nil {
		return err
	}
	b.sendMessageWithKeyboard(chatID,
		"Выберите уровень вашей физической активности:\n"+
			"1 - Сидячий (мало или совсем нет физических нагрузок)\n"+
			"2 - Лёгкий (легкие упражнения 1-3 раза в неделю)\n"+
			"3 - Средний (умеренные упражнения 3-5 раз в неделю)\n"+
			"4 - Высокий (интенсивные упражнения 6-7 раз в неделю)\n"+
			"5 - Очень высокий (очень интенсивные нагрузки, физическая работа или тренировки дважды в день)",
		activityKeyboard())
	return nil
}

// wizardActivityStep — финальный переход: профиль рассчитывается и
// сохраняется, после чего сессия удаляется. Профиль пишется первым:
// его наличие — авторитетный признак завершенной настройки, поэтому
// сбой удаления сессии не отменяет результат.
func (b *Bot) wizardActivityStep(ctx context.Context, userID, chatID int64, session *models.WizardSession, input string) error {
	activityLevel, ok := parseActivity(input)
	if !ok {
		b.sendMessage(chatID, "Пожалуйста, выберите уровень активности от 1 до 5.")
		return nil
	}

	profile := session.PartialProfile
	profile.ActivityLevel = activityLevel
	profile.TDEE = nutrition.CalculateTDEE(&profile)
	profile.Protein, profile.Fat, profile.Carbs = nutrition.CalculateMacros(profile.TDEE)

	if err := b.profiles.SaveProfile(ctx, userID, &profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if err := b.sessions.DeleteSession(ctx, userID); err != nil {
		log.Printf("[KV] Error deleting wizard session for user %d: %v", userID, err)
	}

	if b.metrics != nil {
		b.metrics.WizardCompletions.Inc()
	}

	b.sendMessage(chatID, fmt.Sprintf(
		"✅ Ваш профиль создан!\n\n"+
			"Ваша суточная норма калорий (TDEE): %d ккал\n\n"+
			"Рекомендуемые макронутриенты:\n"+
			"🥩 Белки: %d г\n"+
			"🧈 Жиры: %d г\n"+
			"🍚 Углеводы: %d г\n\n"+
			"Теперь вы можете отправить мне название любого блюда, и я оценю его КБЖУ.",
		profile.TDEE, profile.Protein, profile.Fat, profile.Carbs))
	return nil
}

// parseGender принимает текстовый ввод и значения кнопок.
func parseGender(input string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "м", "муж", "мужской", "male":
		return models.GenderMale, true
	case "ж", "жен", "женский", "female":
		return models.GenderFemale, true
	}
	return "", false
}

// parseActivity принимает номер 1..5 и значения кнопок.
func parseActivity(input string) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(input))

	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(models.ActivityLevels) {
			return models.ActivityLevels[n-1], true
		}
		return "", false
	}

	for _, level := range models.ActivityLevels {
		if token == level {
			return level, true
		}
	}
	return "", false
}

func genderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Мужской", "wizard:gender:male"),
			tgbotapi.NewInlineKeyboardButtonData("Женский", "wizard:gender:female"),
		),
	)
}

func activityKeyboard() tgbotapi.InlineKeyboardMarkup {
	labels := []string{"1 - Сидячий", "2 - Лёгкий", "3 - Средний", "4 - Высокий", "5 - Очень высокий"}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, level := range models.ActivityLevels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labels[i], "wizard:activity:"+level),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
