package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"xelaConnect/configs"
	"xelaConnect/internal/models"
)

var (
	db    *gorm.DB
	dbErr error
	once  sync.Once
)

type PSQL struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSL      string
	Timezone string
}

func GetDB(config *configs.Config) (*gorm.DB, error) {
	once.Do(func() {
		db, dbErr = initialize(config)
	})
	return db, dbErr
}

func initialize(config *configs.Config) (*gorm.DB, error) {
	psql := getPSQL(config)
	dsn := fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		psql.Host, psql.User, psql.Password, psql.Name, psql.Port, psql.SSL, psql.Timezone,
	)
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func getPSQL(config *configs.Config) *PSQL {
	return &PSQL{
		Host:     config.Viper.GetString("database.host"),
		Port:     config.Viper.GetInt("database.port"),
		User:     config.Viper.GetString("database.user"),
		Password: config.Viper.GetString("database.password"),
		Name:     config.Viper.GetString("database.name"),
		SSL:      config.Viper.GetString("database.ssl"),
		Timezone: config.Viper.GetString("database.timezone"),
	}
}

func migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.UserRecord{},
		&models.MessageRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
