package bot

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/serz/food-daily-bot/internal/models"
)

// handleExportCommand выгружает дневник за сегодня файлом Excel.
func (b *Bot) handleExportCommand(ctx context.Context, userID, chatID int64) {
	stats, err := b.ledger.Today(ctx, userID)
	if err != nil {
		log.Printf("[KV] Error reading ledger for export, user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Ошибка при создании файла экспорта")
		return
	}
	if stats == nil {
		b.sendMessage(chatID, "У вас пока нет записей о питании на сегодня.")
		return
	}

	buf, err := buildLedgerWorkbook(stats)
	if err != nil {
		log.Printf("[Bot] Error building export for user %d: %v", userID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Ошибка при создании файла экспорта")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("food-daily-%s.xlsx", stats.Date),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📊 Дневник питания за %s", stats.Date)

	if _, err := b.tg.Send(doc); err != nil {
		log.Printf("[Bot] Error sending export document to chat %d: %v", chatID, err)
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, "Ошибка при отправке файла")
		return
	}
}

// buildLedgerWorkbook собирает xlsx в памяти: строка на запись плюс итоговая.
func buildLedgerWorkbook(stats *models.DailyLedger) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	headers := []string{"№", "Блюдо", "Время", "Калории", "Белки", "Жиры", "Углеводы"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, entry := range stats.Entries {
		at := time.UnixMilli(entry.Timestamp).UTC().Format("15:04")
		values := []interface{}{row + 1, entry.Description, at, entry.Calories, entry.Protein, entry.Fat, entry.Carbs}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := len(stats.Entries) + 2
	totals := []interface{}{"", "Всего", "", stats.TotalCalories, stats.TotalProtein, stats.TotalFat, stats.TotalCarbs}
	for col, value := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalsRow)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
