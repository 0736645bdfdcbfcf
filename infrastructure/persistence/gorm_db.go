package persistence

import (
	"fmt"

	"subtitle-widget/domain/model"
	"subtitle-widget/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQLDSN builds the go-sql-driver DSN for the audit database.
func MySQLDSN(cfg configuration.Db) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// NewRepositories opens the MySQL database that stores widget dialog calls and
// migrates its schema.
func NewRepositories() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(MySQLDSN(configuration.C.Database.MySql)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.WidgetDialogCall{}); err != nil {
		return db, fmt.Errorf("migrate widget_dialog_calls: %w", err)
	}
	return db, nil
}
