package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/serz/food-daily-bot/internal/config"
	"github.com/serz/food-daily-bot/internal/ledger"
	"github.com/serz/food-daily-bot/internal/models"
	"github.com/serz/food-daily-bot/internal/repository"
)

// fakeSender записывает исходящие сообщения вместо обращения к Telegram.
type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeSender) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// fakeEstimator отдает заранее заданный результат и считает вызовы.
type fakeEstimator struct {
	entry *models.FoodEntry
	err   error
	calls int
}

func (f *fakeEstimator) Estimate(_ context.Context, description string) (*models.FoodEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	entry := *f.entry
	entry.Description = description
	return &entry, nil
}

// flakyStore оборачивает Store и подменяет отдельные операции ошибкой,
// имитируя недоступный Redis. Остальные операции проходят насквозь.
type flakyStore struct {
	*repository.Store
	saveLedgerErr    error
	deleteSessionErr error
}

func (s *flakyStore) SaveLedger(ctx context.Context, userID int64, dl *models.DailyLedger) error {
	if s.saveLedgerErr != nil {
		return s.saveLedgerErr
	}
	return s.Store.SaveLedger(ctx, userID, dl)
}

func (s *flakyStore) DeleteSession(ctx context.Context, userID int64) error {
	if s.deleteSessionErr != nil {
		return s.deleteSessionErr
	}
	return s.Store.DeleteSession(ctx, userID)
}

type testBot struct {
	bot       *Bot
	sender    *fakeSender
	kv        *repository.MemoryKV
	store     *repository.Store
	estimator *fakeEstimator
}

func newTestBot() *testBot {
	kv := repository.NewMemoryKV()
	store := repository.NewStore(kv)
	sender := &fakeSender{}
	estimator := &fakeEstimator{
		entry: &models.FoodEntry{Calories: 450, Protein: 30, Fat: 15, Carbs: 45, Timestamp: 1710500000000},
	}

	return &testBot{
		bot: &Bot{
			tg:        sender,
			config:    &config.Config{},
			profiles:  store,
			sessions:  store,
			ledger:    ledger.NewAggregator(store),
			estimator: estimator,
		},
		sender:    sender,
		kv:        kv,
		store:     store,
		estimator: estimator,
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", userID),
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 2,
				Chat:      &tgbotapi.Chat{ID: userID},
			},
			Data: data,
		},
	}
}
