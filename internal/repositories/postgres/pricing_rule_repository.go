package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweetstack/cakepricer/internal/models"
)

type PricingRuleRepository struct {
	pool *pgxpool.Pool
}

func NewPricingRuleRepository(pool *pgxpool.Pool) *PricingRuleRepository {
	return &PricingRuleRepository{pool: pool}
}

// GetActiveRules loads the rules the engine prices against. Ordering is fixed
// so first-rule-wins resolution stays deterministic across refetches.
func (r *PricingRuleRepository) GetActiveRules(ctx context.Context) ([]models.PricingRule, error) {
	query := `
        SELECT
            id,
            item_key,
            item_type,
            size,
            category,
            price,
            quantity_rule,
            multiplier_rule,
            classification,
            special_conditions,
            is_active
        FROM pricing_rules
        WHERE is_active = true
        ORDER BY item_key, id
    `
	return r.queryRules(ctx, query)
}

func (r *PricingRuleRepository) GetAll(ctx context.Context) ([]models.PricingRule, error) {
	query := `
        SELECT
            id,
            item_key,
            item_type,
            size,
            category,
            price,
            quantity_rule,
            multiplier_rule,
            classification,
            special_conditions,
            is_active
        FROM pricing_rules
        ORDER BY item_key, id
    `
	return r.queryRules(ctx, query)
}

func (r *PricingRuleRepository) queryRules(ctx context.Context, query string, args ...interface{}) ([]models.PricingRule, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		var conditions []byte
		err := rows.Scan(
			&rule.ID,
			&rule.ItemKey,
			&rule.ItemType,
			&rule.Size,
			&rule.Category,
			&rule.Price,
			&rule.QuantityRule,
			&rule.MultiplierRule,
			&rule.Classification,
			&conditions,
			&rule.IsActive,
		)
		if err != nil {
			return nil, err
		}
		if len(conditions) > 0 {
			if err := json.Unmarshal(conditions, &rule.SpecialConditions); err != nil {
				return nil, fmt.Errorf("invalid special_conditions for rule %q: %w", rule.ItemKey, err)
			}
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *PricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	conditions, err := json.Marshal(rule.SpecialConditions)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO pricing_rules (
            id, item_key, item_type, size, category, price,
            quantity_rule, multiplier_rule, classification,
            special_conditions, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        )
    `
	_, err = r.pool.Exec(ctx, query,
		rule.ID,
		rule.ItemKey,
		rule.ItemType,
		rule.Size,
		rule.Category,
		rule.Price,
		rule.QuantityRule,
		rule.MultiplierRule,
		rule.Classification,
		conditions,
		rule.IsActive,
	)
	return err
}

func (r *PricingRuleRepository) BulkCreate(ctx context.Context, rules []models.PricingRule) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"pricing_rules"},
		[]string{
			"id", "item_key", "item_type", "size", "category", "price",
			"quantity_rule", "multiplier_rule", "classification",
			"special_conditions", "is_active",
		},
		pgx.CopyFromSlice(len(rules), func(i int) ([]interface{}, error) {
			conditions, err := json.Marshal(rules[i].SpecialConditions)
			if err != nil {
				return nil, err
			}
			return []interface{}{
				rules[i].ID,
				rules[i].ItemKey,
				rules[i].ItemType,
				rules[i].Size,
				rules[i].Category,
				rules[i].Price,
				rules[i].QuantityRule,
				rules[i].MultiplierRule,
				rules[i].Classification,
				conditions,
				rules[i].IsActive,
			}, nil
		}),
	)
	return err
}

func (r *PricingRuleRepository) UpdatePrice(ctx context.Context, itemKey string, price float64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE pricing_rules SET price = $1 WHERE item_key = $2", price, itemKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no pricing rule with item_key %q", itemKey)
	}
	return nil
}

func (r *PricingRuleRepository) Deactivate(ctx context.Context, itemKey string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE pricing_rules SET is_active = false WHERE item_key = $1", itemKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no pricing rule with item_key %q", itemKey)
	}
	return nil
}

func (r *PricingRuleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM pricing_rules").Scan(&count)
	return count, err
}

func (r *PricingRuleRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE pricing_rules CASCADE")
	return err
}
