package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serz/food-daily-bot/internal/models"
)

func TestWizardHappyPath(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(100)

	tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))

	session, err := tb.store.GetSession(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.StepGender, session.Step)

	for _, answer := range []string{"м", "30", "180", "80", "3"} {
		tb.bot.HandleUpdate(ctx, textUpdate(userID, answer))
	}

	// Сессия удалена, профиль рассчитан и сохранен
	session, err = tb.store.GetSession(ctx, userID)
	assert.NoError(t, err)
	assert.Nil(t, session)

	profile, err := tb.store.GetProfile(ctx, userID)
	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, models.GenderMale, profile.Gender)
	assert.Equal(t, models.ActivityModerate, profile.ActivityLevel)
	assert.Equal(t, 2914, profile.TDEE)
	assert.Equal(t, 219, profile.Protein)
	assert.Equal(t, 97, profile.Fat)
	assert.Equal(t, 291, profile.Carbs)

	assert.Contains(t, tb.sender.lastText(), "Ваш профиль создан")
	assert.Contains(t, tb.sender.lastText(), "2914 ккал")
}

func TestWizardInvalidInputKeepsStep(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		answers []string // валидные ответы до проверяемого шага
		step    string
		invalid string
		want    string
	}{
		{"Gender", nil, models.StepGender, "какой-то текст", "для мужского пола"},
		{"AgeBelow", []string{"м"}, models.StepAge, "9", "от 10 до 100"},
		{"AgeAbove", []string{"м"}, models.StepAge, "101", "от 10 до 100"},
		{"AgeNotNumber", []string{"м"}, models.StepAge, "тридцать", "от 10 до 100"},
		{"Height", []string{"м", "30"}, models.StepHeight, "99", "от 100 до 250"},
		{"Weight", []string{"м", "30", "180"}, models.StepWeight, "301", "от 30 до 300"},
		{"Activity", []string{"м", "30", "180", "80"}, models.StepActivity, "6", "от 1 до 5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tb := newTestBot()
			const userID = int64(200)
			tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))
			for _, answer := range tc.answers {
				tb.bot.HandleUpdate(ctx, textUpdate(userID, answer))
			}

			before, _ := tb.store.GetSession(ctx, userID)
			assert.Equal(t, tc.step, before.Step)

			tb.bot.HandleUpdate(ctx, textUpdate(userID, tc.invalid))

			// Шаг и накопленные поля не изменились, получен повторный запрос
			after, _ := tb.store.GetSession(ctx, userID)
			assert.Equal(t, before.Step, after.Step)
			assert.Equal(t, before.PartialProfile, after.PartialProfile)
			assert.Contains(t, tb.sender.lastText(), tc.want)

			// Профиль не создан
			profile, _ := tb.store.GetProfile(ctx, userID)
			assert.Nil(t, profile)
		})
	}
}

func TestWizardAgeBoundariesAccepted(t *testing.T) {
	ctx := context.Background()
	for _, age := range []string{"10", "100"} {
		tb := newTestBot()
		const userID = int64(300)
		tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))
		tb.bot.HandleUpdate(ctx, textUpdate(userID, "ж"))
		tb.bot.HandleUpdate(ctx, textUpdate(userID, age))

		session, _ := tb.store.GetSession(ctx, userID)
		assert.Equal(t, models.StepHeight, session.Step, "age %s must be accepted", age)
	}
}

func TestWizardViaCallbacks(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(400)

	tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))
	// Пол выбран кнопкой, активность тоже — остальное текстом
	tb.bot.HandleUpdate(ctx, callbackUpdate(userID, "wizard:gender:female"))

	session, _ := tb.store.GetSession(ctx, userID)
	assert.Equal(t, models.StepAge, session.Step)
	assert.Equal(t, models.GenderFemale, session.PartialProfile.Gender)

	tb.bot.HandleUpdate(ctx, textUpdate(userID, "25"))
	tb.bot.HandleUpdate(ctx, textUpdate(userID, "165"))
	tb.bot.HandleUpdate(ctx, textUpdate(userID, "60"))
	tb.bot.HandleUpdate(ctx, callbackUpdate(userID, "wizard:activity:sedentary"))

	profile, _ := tb.store.GetProfile(ctx, userID)
	assert.NotNil(t, profile)
	assert.Equal(t, models.ActivitySedentary, profile.ActivityLevel)
	assert.Equal(t, 1614, profile.TDEE)

	session, _ = tb.store.GetSession(ctx, userID)
	assert.Nil(t, session)

	// На callback был дан ответ (снятие "часиков")
	assert.NotEmpty(t, tb.sender.requests)
}

func TestWizardCallbackWithoutSession(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()

	tb.bot.HandleUpdate(ctx, callbackUpdate(500, "wizard:gender:male"))

	assert.Contains(t, tb.sender.lastText(), "Анкета не активна")
}

func TestWizardUnknownStepSelfHeals(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(600)

	// Сессия с шагом из будущей версии
	err := tb.store.SaveSession(ctx, userID, &models.WizardSession{Step: "goal"})
	assert.NoError(t, err)

	handled, err := tb.bot.processWizard(ctx, userID, userID, "похудение")
	assert.NoError(t, err)
	assert.False(t, handled)

	session, _ := tb.store.GetSession(ctx, userID)
	assert.Nil(t, session)
}

func TestWizardCorruptedSessionSelfHeals(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(650)

	err := tb.kv.Set(ctx, "wizard:650", "{broken json")
	assert.NoError(t, err)

	handled, err := tb.bot.processWizard(ctx, userID, userID, "м")
	assert.NoError(t, err)
	assert.False(t, handled)

	_, ok, _ := tb.kv.Get(ctx, "wizard:650")
	assert.False(t, ok, "corrupted session must be deleted")
}

func TestWizardRestartOverwritesSession(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(700)

	tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))
	tb.bot.HandleUpdate(ctx, textUpdate(userID, "м"))
	tb.bot.HandleUpdate(ctx, textUpdate(userID, "30"))

	// /edit начинает анкету заново с первого шага
	tb.bot.HandleUpdate(ctx, textUpdate(userID, "/edit"))

	session, _ := tb.store.GetSession(ctx, userID)
	assert.Equal(t, models.StepGender, session.Step)
	assert.Equal(t, models.Profile{}, session.PartialProfile)
}

func TestWizardSessionDeleteFailureStillCompletes(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot()
	const userID = int64(800)

	flaky := &flakyStore{Store: tb.store, deleteSessionErr: errors.New("redis: connection refused")}
	tb.bot.sessions = flaky

	tb.bot.HandleUpdate(ctx, textUpdate(userID, "/start"))
	for _, answer := range []string{"м", "30", "180", "80", "3"} {
		tb.bot.HandleUpdate(ctx, textUpdate(userID, answer))
	}

	// Профиль зафиксирован, итоговое сообщение отправлено
	profile, err := tb.store.GetProfile(ctx, userID)
	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, 2914, profile.TDEE)
	assert.Contains(t, tb.sender.lastText(), "Ваш профиль создан")

	// Сессия осталась висеть, но профиль уже действует
	session, err := tb.store.GetSession(ctx, userID)
	assert.NoError(t, err)
	assert.NotNil(t, session)
}
