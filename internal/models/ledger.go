package models

// FoodEntry — одна запись дневника. После создания не изменяется.
type FoodEntry struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Carbs       float64 `json:"carbs"`
	Timestamp   int64   `json:"timestamp"` // unix millis
}

// DailyLedger — дневник питания за один календарный день (UTC).
// Итоги всегда пересчитываются как суммы по всем записям, а не инкрементально,
// поэтому после каждой успешной записи они согласованы со списком.
type DailyLedger struct {
	Date          string      `json:"date"` // YYYY-MM-DD
	Entries       []FoodEntry `json:"entries"`
	TotalCalories float64     `json:"totalCalories"`
	TotalProtein  float64     `json:"totalProtein"`
	TotalFat      float64     `json:"totalFat"`
	TotalCarbs    float64     `json:"totalCarbs"`
}

// Recalculate пересчитывает итоги по текущему списку записей.
func (l *DailyLedger) Recalculate() {
	var cal, prot, fat, carbs float64
	for _, e := range l.Entries {
		cal += e.Calories
		prot += e.Protein
		fat += e.Fat
		carbs += e.Carbs
	}
	l.TotalCalories = cal
	l.TotalProtein = prot
	l.TotalFat = fat
	l.TotalCarbs = carbs
}
