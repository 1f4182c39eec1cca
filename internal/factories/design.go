package factories

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/sweetstack/cakepricer/internal/models"
)

var fake = faker.New()

var (
	cakeTypes = []models.CakeType{"Bento", "1 Tier", "2 Tier", "3 Tier"}
	flavors   = []string{"Chocolate", "Vanilla", "Ube", "Red Velvet", "Mocha", "Pandan"}

	topperTypes  = []string{"candle", "number_topper", "printout", "figurine", "edible_photo", "meringue_pops", "macaron", "chocolates", "edible_2d_shapes", "edible_2d_gumpaste"}
	supportTypes = []string{"sprinkles", "gumpaste_bundle", "chocolate_shards", "edible_2d_support", "gumpaste_balls"}
	messageTypes = []string{"piped_message", "gumpaste_letters", "printed_message"}
	sizes        = []string{"small", "medium", "large"}
)

// DesignFactory builds randomized cake designs for the quote simulator.
type DesignFactory struct {
	rng *rand.Rand
}

func NewDesignFactory(rng *rand.Rand) *DesignFactory {
	return &DesignFactory{rng: rng}
}

func (df *DesignFactory) CreateDesign(config *models.Config) models.DesignState {
	maxToppers := config.MaxToppers
	if maxToppers <= 0 {
		maxToppers = 3
	}
	maxSupport := config.MaxSupportPieces
	if maxSupport <= 0 {
		maxSupport = 12
	}

	design := models.DesignState{
		CakeInfo: models.CakeInfo{
			Type:   cakeTypes[df.rng.Intn(len(cakeTypes))],
			Flavor: flavors[df.rng.Intn(len(flavors))],
			Serves: df.rng.Intn(40) + 4,
		},
		IcingDesign: models.IcingDesign{
			Drip:              df.rng.Float64() < 0.3,
			GumpasteBaseBoard: df.rng.Float64() < 0.15,
		},
	}

	topperCount := df.rng.Intn(maxToppers + 1)
	for i := 0; i < topperCount; i++ {
		design.MainToppers = append(design.MainToppers, df.createTopper())
	}

	supportCount := df.rng.Intn(4)
	for i := 0; i < supportCount; i++ {
		design.SupportElements = append(design.SupportElements, df.createSupportElement(maxSupport))
	}

	if df.rng.Float64() < 0.6 {
		design.CakeMessages = append(design.CakeMessages, df.createMessage())
	}

	return design
}

func (df *DesignFactory) createTopper() models.MainTopper {
	topperType := topperTypes[df.rng.Intn(len(topperTypes))]

	description := fmt.Sprintf("%s topper", topperType)
	if topperType == "number_topper" {
		// digit-bearing descriptions exercise per-digit rules
		description = fmt.Sprintf("Number %d topper", df.rng.Intn(99)+1)
	}

	return models.MainTopper{
		ID:          cuid.New(),
		IsEnabled:   df.rng.Float64() < 0.9,
		Type:        topperType,
		Size:        sizes[df.rng.Intn(len(sizes))],
		Quantity:    df.rng.Intn(4) + 1,
		Description: description,
	}
}

func (df *DesignFactory) createSupportElement(maxPieces int) models.SupportElement {
	supportType := supportTypes[df.rng.Intn(len(supportTypes))]
	size := sizes[df.rng.Intn(len(sizes))]

	element := models.SupportElement{
		ID:          cuid.New(),
		IsEnabled:   df.rng.Float64() < 0.9,
		Type:        supportType,
		Quantity:    df.rng.Intn(maxPieces) + 1,
		Description: fmt.Sprintf("%s accents", supportType),
	}

	// older design payloads carry coverage instead of size
	if df.rng.Float64() < 0.2 {
		element.Coverage = size
	} else {
		element.Size = size
	}

	return element
}

func (df *DesignFactory) createMessage() models.CakeMessage {
	text := fmt.Sprintf("Happy %dth %s", df.rng.Intn(80)+1, fake.Person().FirstName())

	return models.CakeMessage{
		ID:        cuid.New(),
		IsEnabled: df.rng.Float64() < 0.95,
		Type:      messageTypes[df.rng.Intn(len(messageTypes))],
		Text:      text,
		Position:  []string{"top", "side", "board"}[df.rng.Intn(3)],
	}
}
