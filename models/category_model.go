package models

type Category struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Type string `gorm:"size:100;not null"`
}

type FormattedCategory struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

func (c Category) Format() FormattedCategory {
	return FormattedCategory{ID: c.ID, Type: c.Type}
}

func FormatCategories(categories []Category) []FormattedCategory {
	formatted := make([]FormattedCategory, len(categories))
	for i, c := range categories {
		formatted[i] = c.Format()
	}
	return formatted
}
