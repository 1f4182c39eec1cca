package quotesim

import (
	"fmt"

	"github.com/sweetstack/cakepricer/internal/models"
	"github.com/xitongsys/parquet-go/schema"
)

// GetSchema builds the parquet schema for a topic's event struct.
func GetSchema(eventType string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch eventType {
	case "quote_events":
		sh, err = schema.NewSchemaHandlerFromStruct(new(models.QuoteEvent))
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create schema for %s: %w", eventType, err)
	}
	return sh, nil
}
