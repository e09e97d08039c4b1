// Package nutrition contains the pure energy and macronutrient arithmetic.
package nutrition

import (
	"math"

	"github.com/serz/food-daily-bot/internal/models"
)

// ActivityMultipliers — коэффициенты активности для расчета TDEE.
var ActivityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,   // мало или совсем нет физических нагрузок
	models.ActivityLight:      1.375, // легкие упражнения 1-3 раза в неделю
	models.ActivityModerate:   1.55,  // умеренные упражнения 3-5 раз в неделю
	models.ActivityActive:     1.725, // интенсивные упражнения 6-7 раз в неделю
	models.ActivityVeryActive: 1.9,   // физическая работа или тренировки дважды в день
}

// CalculateTDEE считает суточную норму калорий по формуле Миффлина-Сан Жеора.
// Входные данные уже проверены анкетой.
func CalculateTDEE(profile *models.Profile) int {
	var bmr float64
	if profile.Gender == models.GenderMale {
		bmr = 10*float64(profile.Weight) + 6.25*float64(profile.Height) - 5*float64(profile.Age) + 5
	} else {
		bmr = 10*float64(profile.Weight) + 6.25*float64(profile.Height) - 5*float64(profile.Age) - 161
	}

	return int(math.Round(bmr * ActivityMultipliers[profile.ActivityLevel]))
}

// CalculateMacros раскладывает калорийность на макронутриенты по схеме
// 30/30/40 (белки/жиры/углеводы). Каждое значение округляется независимо,
// поэтому сумма в калориях может не сходиться с TDEE на единицы.
func CalculateMacros(tdee int) (protein, fat, carbs int) {
	protein = int(math.Round(float64(tdee) * 0.3 / 4)) // 4 ккал на грамм белка
	fat = int(math.Round(float64(tdee) * 0.3 / 9))     // 9 ккал на грамм жира
	carbs = int(math.Round(float64(tdee) * 0.4 / 4))   // 4 ккал на грамм углеводов
	return protein, fat, carbs
}
