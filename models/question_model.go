package models

type Question struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	Question   string `gorm:"type:text;not null"`
	Answer     string `gorm:"type:text;not null"`
	Difficulty int    `gorm:"not null"`
	Category   int    `gorm:"not null;index"`
}

// FormattedQuestion is the shape a question takes in every JSON response.
type FormattedQuestion struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

func (q Question) Format() FormattedQuestion {
	return FormattedQuestion{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

func FormatQuestions(questions []Question) []FormattedQuestion {
	formatted := make([]FormattedQuestion, len(questions))
	for i, q := range questions {
		formatted[i] = q.Format()
	}
	return formatted
}
