package quotesim

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sweetstack/cakepricer/internal/factories"
	"github.com/sweetstack/cakepricer/internal/models"
	"github.com/sweetstack/cakepricer/internal/output"
	"github.com/sweetstack/cakepricer/internal/pricing"
)

// Simulator generates randomized cake designs, prices each one through the
// engine, and fans the resulting quote events out to the configured
// destination. It exists to load-test rule tables and to feed the analytics
// pipeline with realistic traffic.
type Simulator struct {
	Config  *models.Config
	Engine  *pricing.Engine
	Rng     *rand.Rand
	designs *factories.DesignFactory
}

func NewSimulator(config *models.Config, engine *pricing.Engine) *Simulator {
	seed := int64(config.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Simulator{
		Config:  config,
		Engine:  engine,
		Rng:     rng,
		designs: factories.NewDesignFactory(rng),
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	out := s.determineOutputDestination()
	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("Error closing output: %v", err)
		}
	}()

	log.Printf("Simulating %d quote requests", s.Config.SimulatedQuotes)
	bar := progressbar.Default(int64(s.Config.SimulatedQuotes))

	// The Postgres archive gets batched COPY loads instead of row-at-a-time
	// inserts.
	if archive, ok := out.(*output.PostgresOutput); ok {
		return s.runArchived(ctx, archive, bar)
	}

	for i := 0; i < s.Config.SimulatedQuotes; i++ {
		event, err := s.simulateQuote(ctx)
		if err != nil {
			return err
		}

		msg, err := json.Marshal(event)
		if err != nil {
			log.Printf("Error serializing quote event: %v", err)
			continue
		}
		if err := out.WriteMessage(s.Config.KafkaTopic, msg); err != nil {
			log.Printf("Failed to write message: %v", err)
		}
		bar.Add(1)
	}

	log.Printf("Simulation completed at %s", time.Now().UTC().Format(time.RFC3339))
	return nil
}

func (s *Simulator) runArchived(ctx context.Context, archive *output.PostgresOutput, bar *progressbar.ProgressBar) error {
	const batchSize = 500
	batch := make([]models.QuoteEvent, 0, batchSize)

	for i := 0; i < s.Config.SimulatedQuotes; i++ {
		event, err := s.simulateQuote(ctx)
		if err != nil {
			return err
		}
		batch = append(batch, event)

		if len(batch) == batchSize {
			if err := archive.BatchInsertQuoteEvents(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		bar.Add(1)
	}

	if len(batch) > 0 {
		if err := archive.BatchInsertQuoteEvents(batch); err != nil {
			return err
		}
	}

	log.Printf("Simulation completed at %s", time.Now().UTC().Format(time.RFC3339))
	return nil
}

func (s *Simulator) simulateQuote(ctx context.Context) (models.QuoteEvent, error) {
	design := s.designs.CreateDesign(s.Config)
	result, err := s.Engine.Price(ctx, design)
	if err != nil {
		return models.QuoteEvent{}, err
	}
	return s.buildQuoteEvent(design, result), nil
}

func (s *Simulator) buildQuoteEvent(design models.DesignState, result *models.QuoteResult) models.QuoteEvent {
	lines := result.AddOnPricing.Breakdown
	if lines == nil {
		lines = []models.BreakdownLine{}
	}
	breakdown, err := json.Marshal(lines)
	if err != nil {
		log.Printf("Error serializing breakdown: %v", err)
		breakdown = []byte("[]")
	}

	currency := s.Config.DefaultCurrency
	if currency == "" {
		currency = "PHP"
	}

	return models.QuoteEvent{
		Timestamp:     time.Now().Unix(),
		EventType:     "quote_generated",
		QuoteID:       cuid.New(),
		CakeType:      string(design.CakeInfo.Type),
		Flavor:        design.CakeInfo.Flavor,
		Serves:        int32(design.CakeInfo.Serves),
		TierCount:     int32(design.CakeInfo.TierCount()),
		ToppersCount:  int32(len(design.MainToppers)),
		SupportCount:  int32(len(design.SupportElements)),
		MessagesCount: int32(len(design.CakeMessages)),
		HasDrip:       design.IcingDesign.Drip,
		HasBaseBoard:  design.IcingDesign.GumpasteBaseBoard,
		AddOnPrice:    result.AddOnPricing.AddOnPrice,
		Currency:      currency,
		Breakdown:     string(breakdown),
	}
}
