package models

import "time"

// PlatformFlags records which device families an offer can be completed on.
type PlatformFlags struct {
	SupportsDesktop bool `gorm:"column:is_desktop;not null" json:"supportsDesktop"`
	SupportsAndroid bool `gorm:"column:is_android;not null" json:"supportsAndroid"`
	SupportsIOS     bool `gorm:"column:is_ios;not null" json:"supportsIos"`
}

// Offer is the provider-agnostic record persisted in the offers table.
// ProviderName and ExternalOfferID form the natural key.
type Offer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name             string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug             string `gorm:"type:varchar(255);not null" json:"slug" validate:"required"`
	Description      string `gorm:"type:text" json:"description"`
	Requirements     string `gorm:"type:text" json:"requirements"`
	Thumbnail        string `gorm:"type:varchar(255);not null" json:"thumbnail" validate:"required"`
	OfferURLTemplate string `gorm:"column:offer_url_template;type:varchar(256);not null" json:"offerUrlTemplate" validate:"required"`

	Platforms PlatformFlags `gorm:"embedded" json:"platformFlags"`

	ProviderName    string `gorm:"type:varchar(255);not null;uniqueIndex:idx_offers_provider_external,priority:1" json:"providerName" validate:"required"`
	ExternalOfferID string `gorm:"column:external_offer_id;type:varchar(255);not null;uniqueIndex:idx_offers_provider_external,priority:2" json:"externalOfferId" validate:"required"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name regardless of the naming strategy.
func (Offer) TableName() string {
	return "offers"
}
