package domain

import (
	"context"

	"github.com/serz/food-daily-bot/internal/models"
)

// Репозитории возвращают (nil, nil), если значения нет: вызывающий код
// ветвится по наличию данных, а не по тексту ошибки.

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	SaveProfile(ctx context.Context, userID int64, profile *models.Profile) error
}

type SessionRepository interface {
	GetSession(ctx context.Context, userID int64) (*models.WizardSession, error)
	SaveSession(ctx context.Context, userID int64, session *models.WizardSession) error
	DeleteSession(ctx context.Context, userID int64) error
}

type LedgerRepository interface {
	GetLedger(ctx context.Context, userID int64, date string) (*models.DailyLedger, error)
	SaveLedger(ctx context.Context, userID int64, ledger *models.DailyLedger) error
}
