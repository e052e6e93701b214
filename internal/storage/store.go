package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pauljones0/offer-importer/internal/config"
	"github.com/pauljones0/offer-importer/internal/models"
)

// mutableColumns are overwritten when an upsert hits an existing natural key.
// id, provider_name, external_offer_id and created_at are never touched.
var mutableColumns = []string{
	"name",
	"slug",
	"description",
	"requirements",
	"thumbnail",
	"is_desktop",
	"is_android",
	"is_ios",
	"offer_url_template",
	"updated_at",
}

var naturalKey = []clause.Column{{Name: "provider_name"}, {Name: "external_offer_id"}}

type Client struct {
	db *gorm.DB
}

// New opens the configured database, verifies the connection and, when enabled,
// migrates the offers table including its unique natural-key index.
func New(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newSlogLogger(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	c := &Client{db: db}
	if cfg.AutoMigrate {
		if err := c.Migrate(ctx); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	slog.Info("Database connection established", "driver", cfg.Driver, "autoMigrate", cfg.AutoMigrate)
	return c, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the offers table.
func (c *Client) Migrate(ctx context.Context) error {
	if err := c.db.WithContext(ctx).AutoMigrate(&models.Offer{}); err != nil {
		return fmt.Errorf("failed to migrate offers table: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// Upsert inserts the offer, or updates the mutable columns of the row that already
// holds its (provider_name, external_offer_id) pair, in a single statement.
func (c *Client) Upsert(ctx context.Context, offer models.Offer) error {
	offer.ID = 0
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   naturalKey,
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(&offer).Error
	if err != nil {
		return fmt.Errorf("failed to upsert offer %s/%s: %w", offer.ProviderName, offer.ExternalOfferID, err)
	}
	return nil
}

// GetByNaturalKey returns the stored offer for a provider and external ID, or nil if none exists.
func (c *Client) GetByNaturalKey(ctx context.Context, providerName, externalOfferID string) (*models.Offer, error) {
	var offer models.Offer
	err := c.db.WithContext(ctx).
		Where("provider_name = ? AND external_offer_id = ?", providerName, externalOfferID).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offer %s/%s: %w", providerName, externalOfferID, err)
	}
	return &offer, nil
}

// Count returns the number of stored offers.
func (c *Client) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&models.Offer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return n, nil
}
