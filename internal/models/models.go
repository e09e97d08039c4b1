package models

// Пол пользователя.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Уровни физической активности. Пять канонических уровней,
// номера 1..5 соответствуют порядку в анкете.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// ActivityLevels перечисляет уровни в порядке их номеров в анкете.
var ActivityLevels = []string{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

// Profile — профиль пользователя. TDEE и макронутриенты рассчитываются
// один раз при завершении анкеты: присутствуют либо все четыре поля, либо ни одного.
type Profile struct {
	Gender        string `json:"gender"`
	Age           int    `json:"age"`
	Height        int    `json:"height"`
	Weight        int    `json:"weight"`
	ActivityLevel string `json:"activityLevel"`

	TDEE    int `json:"tdee,omitempty"`
	Protein int `json:"protein,omitempty"`
	Fat     int `json:"fat,omitempty"`
	Carbs   int `json:"carbs,omitempty"`
}

// Шаги анкеты, строго последовательные, без пропусков и возвратов.
const (
	StepGender   = "gender"
	StepAge      = "age"
	StepHeight   = "height"
	StepWeight   = "weight"
	StepActivity = "activity"
)

// WizardSession — состояние анкеты. Хранится отдельно от профиля и
// удаляется в момент корректного ответа на последний шаг.
type WizardSession struct {
	Step           string  `json:"step"`
	PartialProfile Profile `json:"partialProfile"`
}
