package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/lib/pq"
	"github.com/sweetstack/cakepricer/internal/models"
)

// PostgresOutput archives quote events into the analytics schema. It speaks
// database/sql with lib/pq so batch loads can go through COPY.
type PostgresOutput struct {
	db *sql.DB
}

func NewPostgresOutput(config *models.DatabaseConfig) (*PostgresOutput, error) {
	db, err := sql.Open("postgres", config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &PostgresOutput{db: db}, nil
}

// WriteMessage inserts a single event row, mapping the topic to its archive
// table and the event's JSON keys to snake_case columns.
func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		cols,
		placeholders,
	)

	_, err := p.db.Exec(query, vals...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return nil
}

// BatchInsertQuoteEventsTx bulk-loads quote events through COPY inside the
// caller's transaction.
func (p *PostgresOutput) BatchInsertQuoteEventsTx(tx *sql.Tx, events []models.QuoteEvent) error {
	stmt, err := tx.Prepare(pq.CopyIn(
		"fact_quote",
		"id", "cake_type", "flavor", "serves", "tier_count",
		"toppers_count", "support_count", "messages_count",
		"has_drip", "has_base_board", "add_on_price", "currency",
		"breakdown", "quoted_at",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		_, err = stmt.Exec(
			event.QuoteID,
			event.CakeType,
			nullableString(event.Flavor),
			event.Serves,
			event.TierCount,
			event.ToppersCount,
			event.SupportCount,
			event.MessagesCount,
			event.HasDrip,
			event.HasBaseBoard,
			event.AddOnPrice,
			event.Currency,
			event.Breakdown,
			time.Unix(event.Timestamp, 0),
		)
		if err != nil {
			return fmt.Errorf("failed to exec statement for quote %s: %w", event.QuoteID, err)
		}
	}

	return stmt.Close()
}

// BatchInsertQuoteEvents runs the COPY load in its own retried transaction.
func (p *PostgresOutput) BatchInsertQuoteEvents(events []models.QuoteEvent) error {
	return p.ExecTxWithRetry(func(tx *sql.Tx) error {
		return p.BatchInsertQuoteEventsTx(tx, events)
	}, 3)
}

func (p *PostgresOutput) Close() error {
	return p.db.Close()
}

func (p *PostgresOutput) ExecTx(fn func(*sql.Tx) error) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r) // re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (p *PostgresOutput) ExecTxWithRetry(fn func(*sql.Tx) error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = p.ExecTx(fn)
		if err == nil {
			return nil
		}

		if isRetryableError(err) {
			time.Sleep(time.Duration(i*100) * time.Millisecond)
			continue
		}

		return err // non-retryable error
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03": // lock_not_available
			return true
		}
	}

	return false
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		"quote_events":      "fact_quote",
		"rule_audit_events": "fact_rule_audit",
	}

	if table, ok := tableMap[topic]; ok {
		return table
	}
	// if no mapping found, use the topic name as table name
	// after removing the _events suffix
	tableName := strings.TrimSuffix(topic, "_events")
	return "fact_" + tableName
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	// store columns and values in sorted order for consistent queries
	var columns []string
	var values []interface{}
	var placeholderNum int
	var placeholders []string

	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := event[key]

		switch v := val.(type) {
		case time.Time:
			values = append(values, v)
		case []string:
			values = append(values, pq.Array(v))
		case map[string]interface{}:
			// convert maps to JSONB
			jsonBytes, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling JSON for key %s: %v", key, err)
				continue
			}
			values = append(values, string(jsonBytes))
		case []interface{}:
			jsonBytes, err := json.Marshal(v)
			if err != nil {
				log.Printf("Error marshaling JSON for key %s: %v", key, err)
				continue
			}
			values = append(values, string(jsonBytes))
		default:
			values = append(values, v)
		}

		columns = append(columns, snakeCaseKey(key))
		placeholderNum++
		placeholders = append(placeholders, fmt.Sprintf("$%d", placeholderNum))
	}

	return strings.Join(columns, ", "),
		values,
		strings.Join(placeholders, ", ")
}

func snakeCaseKey(key string) string {
	var result strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
