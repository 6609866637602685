package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

// Subscription persists Stripe subscription state per user. The Stripe-sourced
// columns are a cache; they are refreshed by activation, reconciliation, and
// checkout validation rather than on every read.
type Subscription struct {
	ID                   uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID               *uuid.UUID               `gorm:"column:plan_id;type:uuid;index"`
	Status               enums.SubscriptionStatus `gorm:"column:status;not null;default:'pending'"`
	StripeSubscriptionID *string                  `gorm:"column:stripe_subscription_id;uniqueIndex"`
	StripeCustomerID     *string                  `gorm:"column:stripe_customer_id"`
	StartDate            *time.Time               `gorm:"column:start_date"`
	CurrentPeriodStart   *time.Time               `gorm:"column:current_period_start"`
	CurrentPeriodEnd     *time.Time               `gorm:"column:current_period_end"`
	CancelAtPeriodEnd    bool                     `gorm:"column:cancel_at_period_end;not null;default:false"`
	CanceledAt           *time.Time               `gorm:"column:canceled_at"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`

	Plan *Plan `gorm:"foreignKey:PlanID"`
}
