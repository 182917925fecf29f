package model

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Resource{})
}
