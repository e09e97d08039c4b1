// Package ledger accumulates food entries into per-user, per-day records.
package ledger

import (
	"context"
	"log"
	"time"

	"github.com/serz/food-daily-bot/internal/domain"
	"github.com/serz/food-daily-bot/internal/models"
)

const dateLayout = "2006-01-02"

type Aggregator struct {
	repo domain.LedgerRepository
	now  func() time.Time
}

func NewAggregator(repo domain.LedgerRepository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

// DateKey — ключ календарного дня, граница суток по UTC.
func (a *Aggregator) DateKey() string {
	return a.now().UTC().Format(dateLayout)
}

// RecordEntry дописывает запись в дневник за сегодня и пересчитывает итоги
// полной суммой по списку. Чтение и запись не атомарны относительно
// конкурентных записей того же пользователя: побеждает последняя запись.
func (a *Aggregator) RecordEntry(ctx context.Context, userID int64, entry models.FoodEntry) (*models.DailyLedger, error) {
	date := a.DateKey()

	ledger, err := a.repo.GetLedger(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		log.Printf("[KV] No ledger for user %d on %s, creating new record", userID, date)
		ledger = &models.DailyLedger{Date: date}
	}

	ledger.Entries = append(ledger.Entries, entry)
	ledger.Recalculate()

	if err := a.repo.SaveLedger(ctx, userID, ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// Today возвращает дневник за сегодня или nil, если записей еще нет.
func (a *Aggregator) Today(ctx context.Context, userID int64) (*models.DailyLedger, error) {
	return a.repo.GetLedger(ctx, userID, a.DateKey())
}
