package repository

import (
	"github.com/waste3d/coursemarket-api/internal/domain"

	"gorm.io/gorm"
)

// Migrate создает таблицы сервиса. Каталог (courses, lectures) мигрируется здесь же,
// чтобы локально поднималось без course-service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.CourseSubscription{},
		&domain.Course{},
		&domain.Lecture{},
		&domain.Payment{},
		&domain.Progress{},
	)
}
