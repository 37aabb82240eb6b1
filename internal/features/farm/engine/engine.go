// Package engine implements the game-economy rules as pure state
// transitions: current state in, new state out, typed rejection when a
// precondition fails. Persistence is the caller's job.
package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"youguo-backend/internal/catalog"
	"youguo-backend/internal/features/farm/models"
)

// Business-rule rejections. Each means the action was understood and refused
// by the economy; nothing about the state changed.
var (
	ErrUnknownSeed        = errors.New("unknown seed type")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPlot        = errors.New("invalid plot index")
	ErrPlotOccupied       = errors.New("plot is already occupied")
	ErrPlotEmpty          = errors.New("plot is empty")
	ErrSeedNotInInventory = errors.New("seed not in inventory")
	ErrNotHarvestable     = errors.New("crop is not harvestable")
	ErrNotEnoughProduce   = errors.New("not enough produce to exchange")
)

// BuySeed spends points on one seed of the given type. Requires points >=
// price; the seed lands in the inventory.
func BuySeed(state models.FarmState, points int, seedID string) (models.FarmState, int, error) {
	seed, ok := catalog.SeedByID(seedID)
	if !ok {
		return state, points, ErrUnknownSeed
	}
	if points < seed.Price {
		return state, points, ErrInsufficientPoints
	}

	out := state.Clone()
	addItem(&out.Inventory, seedID, 1)
	return out, points - seed.Price, nil
}

// Plant places one inventory seed into an empty plot at the SEED stage and
// consumes it, pruning the inventory line when it hits zero.
func Plant(state models.FarmState, plotIndex int, seedID string, now time.Time) (models.FarmState, error) {
	if plotIndex < 0 || plotIndex >= len(state.Plots) {
		return state, ErrInvalidPlot
	}
	if state.Plots[plotIndex] != nil {
		return state, ErrPlotOccupied
	}
	if state.InventoryQuantity(seedID) < 1 {
		return state, ErrSeedNotInInventory
	}

	out := state.Clone()
	out.Plots[plotIndex] = &models.PlantedCrop{
		ID:          uuid.New().String(),
		SeedID:      seedID,
		Stage:       models.StageSeed,
		WaterCount:  0,
		LastWatered: now,
	}
	removeItem(&out.Inventory, seedID, 1)
	return out, nil
}

// Water charges the watering cost and increments the crop's water count.
// Reaching the seed's growth threshold advances the stage by exactly one,
// capped at HARVESTABLE, and resets the count. The cost is charged on every
// valid call whether or not a stage change triggers.
func Water(state models.FarmState, points, plotIndex int, now time.Time) (models.FarmState, int, error) {
	if plotIndex < 0 || plotIndex >= len(state.Plots) {
		return state, points, ErrInvalidPlot
	}
	crop := state.Plots[plotIndex]
	if crop == nil {
		return state, points, ErrPlotEmpty
	}
	if points < catalog.WateringCost {
		return state, points, ErrInsufficientPoints
	}
	seed, ok := catalog.SeedByID(crop.SeedID)
	if !ok {
		return state, points, ErrUnknownSeed
	}

	out := state.Clone()
	watered := out.Plots[plotIndex]
	watered.WaterCount++
	watered.LastWatered = now
	if watered.WaterCount >= seed.GrowthSteps {
		if watered.Stage < models.StageHarvestable {
			watered.Stage++
		}
		watered.WaterCount = 0
	}
	return out, points - catalog.WateringCost, nil
}

// Harvest clears a HARVESTABLE plot, credits the seed's harvest amount to
// the produce collection and returns the log entry for the event. The log
// message is the fixed fallback; flavor-text enrichment happens after the
// fact and never gates this transition.
func Harvest(state models.FarmState, plotIndex int, now time.Time) (models.FarmState, models.HarvestLog, error) {
	if plotIndex < 0 || plotIndex >= len(state.Plots) {
		return state, models.HarvestLog{}, ErrInvalidPlot
	}
	crop := state.Plots[plotIndex]
	if crop == nil {
		return state, models.HarvestLog{}, ErrPlotEmpty
	}
	if crop.Stage != models.StageHarvestable {
		return state, models.HarvestLog{}, ErrNotHarvestable
	}
	seed, ok := catalog.SeedByID(crop.SeedID)
	if !ok {
		return state, models.HarvestLog{}, ErrUnknownSeed
	}

	out := state.Clone()
	addProduce(&out.Produce, seed.ID, seed.HarvestAmount)
	out.Plots[plotIndex] = nil

	log := models.HarvestLog{
		ID:        uuid.New().String(),
		CropID:    seed.ID,
		CropName:  seed.Name,
		Icon:      seed.Icon,
		Message:   FallbackHarvestMessage,
		Timestamp: now,
	}
	return out, log, nil
}

// FallbackHarvestMessage is written when the text-generation collaborator is
// unavailable or has not resolved yet.
const FallbackHarvestMessage = "每一分耕耘，都將在未來的某個時刻開花結果。"

// Exchange redeems the accumulated produce for a physical goods box. The
// whole produce collection is consumed once the threshold is met, regardless
// of how quantities are distributed across seed types.
func Exchange(state models.FarmState) (models.FarmState, error) {
	if state.TotalProduce() < catalog.ExchangeRequirement {
		return state, ErrNotEnoughProduce
	}

	out := state.Clone()
	out.Produce = []models.ProduceItem{}
	return out, nil
}

func addItem(items *[]models.InventoryItem, seedID string, qty int) {
	for i := range *items {
		if (*items)[i].SeedID == seedID {
			(*items)[i].Quantity += qty
			return
		}
	}
	*items = append(*items, models.InventoryItem{SeedID: seedID, Quantity: qty})
}

func removeItem(items *[]models.InventoryItem, seedID string, qty int) {
	out := (*items)[:0]
	for _, it := range *items {
		if it.SeedID == seedID {
			it.Quantity -= qty
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	*items = out
}

func addProduce(items *[]models.ProduceItem, seedID string, qty int) {
	for i := range *items {
		if (*items)[i].SeedID == seedID {
			(*items)[i].Quantity += qty
			return
		}
	}
	*items = append(*items, models.ProduceItem{SeedID: seedID, Quantity: qty})
}
