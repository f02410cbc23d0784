package database

import (
	"errors"

	"fieldpay/config"
	"fieldpay/internal/domain"
	"fieldpay/internal/models"
	"fieldpay/pkg/processor"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Customer{},
		&models.Invoice{},
		&models.Payment{},
		&models.InvoicePayment{},
		&models.ProcessorTransaction{},
		&models.BankAccount{},
		&models.ProcessorConfig{},
	)
}

// SeedAdmin creates a default company, admin user, settlement account and
// stub processor rule on a fresh database so payments work out of the box.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	company := models.Company{Name: "Default Company", Currency: domain.DefaultCurrency}
	if err := db.Create(&company).Error; err != nil {
		return err
	}
	admin := models.User{
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	account := models.BankAccount{
		CompanyID: company.ID,
		Name:      "Operating Account",
		IsActive:  true,
		IsDefault: true,
	}
	if err := db.Create(&account).Error; err != nil {
		return err
	}
	rule := models.ProcessorConfig{
		CompanyID:     company.ID,
		ProcessorType: string(processor.KindStub),
		IsActive:      true,
	}
	return db.Create(&rule).Error
}
