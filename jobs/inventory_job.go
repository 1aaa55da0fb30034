package jobs

import (
	"fmt"

	"github.com/anjiri1684/trivia_api/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryCount struct {
	CategoryID int
	Type       string
	Questions  int64
}

type Inventory struct {
	Categories []CategoryCount
	// Orphans counts questions whose category id has no matching row.
	Orphans int64
}

// InventoryJob logs how many questions each category holds.
type InventoryJob struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func (j *InventoryJob) Report() (Inventory, error) {
	var inv Inventory
	err := j.DB.Model(&models.Category{}).
		Select("categories.id AS category_id, categories.type AS type, COUNT(questions.id) AS questions").
		Joins("LEFT JOIN questions ON questions.category = categories.id").
		Group("categories.id, categories.type").
		Order("categories.id").
		Scan(&inv.Categories).Error
	if err != nil {
		return inv, fmt.Errorf("count questions per category: %w", err)
	}

	err = j.DB.Model(&models.Question{}).
		Where("category NOT IN (?)", j.DB.Model(&models.Category{}).Select("id")).
		Count(&inv.Orphans).Error
	if err != nil {
		return inv, fmt.Errorf("count orphan questions: %w", err)
	}
	return inv, nil
}

func (j *InventoryJob) Run() {
	inv, err := j.Report()
	if err != nil {
		j.Log.Error("Inventory job failed", zap.Error(err))
		return
	}

	for _, c := range inv.Categories {
		j.Log.Info("Category inventory",
			zap.Int("category_id", c.CategoryID),
			zap.String("type", c.Type),
			zap.Int64("questions", c.Questions))
	}
	if inv.Orphans > 0 {
		j.Log.Warn("Questions reference missing categories", zap.Int64("count", inv.Orphans))
	}
}

func ScheduleInventory(c *cron.Cron, spec string, job *InventoryJob) (cron.EntryID, error) {
	id, err := c.AddJob(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule inventory job %q: %w", spec, err)
	}
	return id, nil
}
