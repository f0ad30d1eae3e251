package database

import (
	"bytes"
	"fmt"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"

	"piar/entities"
	"piar/pkg/blocks"
	"piar/pkg/logger"
)

func OpenSQLite(path string, log *logger.Logger) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("open sqlite", "path", path, "error", err)
	}

	if err := db.AutoMigrate(
		&entities.Student{},
		&entities.UserProfile{},
		&entities.SupportPlan{},
		&entities.GenerationLog{},
		&entities.StudentActivity{},
		&entities.ObservationEntry{},
		&entities.KBDocument{},
		&entities.KBChunk{},
	); err != nil {
		log.Fatal("automigrate", "error", err)
	}

	if n, err := MigrateLegacyPlanJSON(db); err != nil {
		log.Fatal("migrate legacy plans", "error", err)
	} else if n > 0 {
		log.Info("rewrote legacy plan_json rows", "count", n)
	}

	return db
}

// MigrateLegacyPlanJSON rewrites support plans still holding the old
// keyed-object plan shape into the canonical ordered block array. Rows whose
// content cannot be interpreted are left untouched. Returns the number of
// rows rewritten.
func MigrateLegacyPlanJSON(db *gorm.DB) (int, error) {
	type row struct {
		PlanID   uint
		PlanJSON string
	}
	var rows []row
	if err := db.Model(&entities.SupportPlan{}).
		Select("plan_id", "plan_json").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("scan support plans: %w", err)
	}

	rewritten := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			trimmed := bytes.TrimSpace([]byte(r.PlanJSON))
			if len(trimmed) == 0 {
				continue
			}
			doc, err := blocks.ParseDocument(trimmed)
			if err != nil || !doc.IsLegacy() {
				continue
			}
			canonical, err := blocks.MarshalCanonical(doc.Normalize(nil))
			if err != nil {
				return fmt.Errorf("plan %d: %w", r.PlanID, err)
			}
			if err := tx.Model(&entities.SupportPlan{}).
				Where("plan_id = ?", r.PlanID).
				Update("plan_json", canonical).Error; err != nil {
				return fmt.Errorf("plan %d: %w", r.PlanID, err)
			}
			rewritten++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rewritten, nil
}
