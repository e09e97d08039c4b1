package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/serz/food-daily-bot/internal/domain"
	"github.com/serz/food-daily-bot/internal/models"
)

// Store — типизированный доступ к хранилищу по схеме ключей:
//
//	wizard:<userId>            — сессия анкеты
//	profile:<userId>           — профиль
//	daily:<userId>:<YYYY-MM-DD> — дневник за день
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func profileKey(userID int64) string { return fmt.Sprintf("profile:%d", userID) }
func wizardKey(userID int64) string  { return fmt.Sprintf("wizard:%d", userID) }
func dailyKey(userID int64, date string) string {
	return fmt.Sprintf("daily:%d:%s", userID, date)
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	ok, err := s.getJSON(ctx, profileKey(userID), &profile)
	if err != nil || !ok {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) SaveProfile(ctx context.Context, userID int64, profile *models.Profile) error {
	return s.setJSON(ctx, profileKey(userID), profile)
}

func (s *Store) GetSession(ctx context.Context, userID int64) (*models.WizardSession, error) {
	var session models.WizardSession
	ok, err := s.getJSON(ctx, wizardKey(userID), &session)
	if err != nil || !ok {
		return nil, err
	}
	return &session, nil
}

func (s *Store) SaveSession(ctx context.Context, userID int64, session *models.WizardSession) error {
	return s.setJSON(ctx, wizardKey(userID), session)
}

func (s *Store) DeleteSession(ctx context.Context, userID int64) error {
	return s.kv.Delete(ctx, wizardKey(userID))
}

func (s *Store) GetLedger(ctx context.Context, userID int64, date string) (*models.DailyLedger, error) {
	var ledger models.DailyLedger
	ok, err := s.getJSON(ctx, dailyKey(userID, date), &ledger)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger, nil
}

func (s *Store) SaveLedger(ctx context.Context, userID int64, ledger *models.DailyLedger) error {
	return s.setJSON(ctx, dailyKey(userID, ledger.Date), ledger)
}

func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w: %w", key, domain.ErrCorrupted, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}
