package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// migration is one named, ordered schema step. Steps must be idempotent: the
// whole list runs on every startup.
type migration struct {
	name string
	run  func(db *gorm.DB) error
}

func autoMigrate(value interface{}) func(db *gorm.DB) error {
	return func(db *gorm.DB) error {
		return db.AutoMigrate(value)
	}
}

// migrations is the ordered schema history. Append only; never reorder.
// Parent tables come before the tables referencing them.
var migrations = []migration{
	{name: "001_users", run: autoMigrate(&models.User{})},
	{name: "002_courses", run: autoMigrate(&models.Course{})},
	{name: "003_topics", run: autoMigrate(&models.Topic{})},
	{name: "004_questions", run: autoMigrate(&models.Question{})},
	{name: "005_enrollments", run: autoMigrate(&models.Enrollment{})},
	{name: "006_submissions", run: autoMigrate(&models.Submission{})},
	{name: "007_activity_logs", run: autoMigrate(&models.ActivityLog{})},
}

// Migrate applies the ordered migration list.
func Migrate(db *gorm.DB) error {
	for _, m := range migrations {
		if err := m.run(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	return nil
}
