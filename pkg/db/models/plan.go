package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// Plan mirrors one purchasable Stripe price.
type Plan struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	StripePriceID string          `gorm:"column:stripe_price_id;not null;uniqueIndex"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Currency      enums.Currency  `gorm:"column:currency;not null;default:'brl'"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
