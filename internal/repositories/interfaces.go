package repositories

import (
	"context"
	"github.com/sweetstack/cakepricer/internal/models"
)

type PricingRuleRepository interface {
	GetActiveRules(ctx context.Context) ([]models.PricingRule, error)
	GetAll(ctx context.Context) ([]models.PricingRule, error)
	Create(ctx context.Context, rule *models.PricingRule) error
	BulkCreate(ctx context.Context, rules []models.PricingRule) error
	UpdatePrice(ctx context.Context, itemKey string, price float64) error
	Deactivate(ctx context.Context, itemKey string) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
