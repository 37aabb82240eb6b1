package models

import (
	"time"

	"youguo-backend/internal/catalog"
)

// GrowthStage is the discrete growth phase of a planted crop. It only ever
// advances, one step at a time, and never exceeds StageHarvestable.
type GrowthStage int

const (
	StageSeed GrowthStage = iota
	StageSprout
	StageGrowing
	StageMature
	StageHarvestable
)

// PlantedCrop occupies one farm plot. WaterCount resets to zero each time a
// stage threshold is crossed.
type PlantedCrop struct {
	ID          string      `json:"id"`
	SeedID      string      `json:"seed_id"`
	Stage       GrowthStage `json:"stage"`
	WaterCount  int         `json:"water_count"`
	LastWatered time.Time   `json:"last_watered"`
}

// InventoryItem is a line of unplanted seeds owned by a user. Zero-quantity
// lines are pruned.
type InventoryItem struct {
	SeedID   string `json:"seed_id"`
	Quantity int    `json:"quantity"`
}

// ProduceItem is a line of harvested, unredeemed produce.
type ProduceItem struct {
	SeedID   string `json:"seed_id"`
	Quantity int    `json:"quantity"`
}

// FarmState is the whole per-user farm: the six plots plus seed inventory and
// harvested produce.
type FarmState struct {
	Plots     []*PlantedCrop  `json:"plots"`
	Inventory []InventoryItem `json:"inventory"`
	Produce   []ProduceItem   `json:"produce"`
}

// NewFarmState allocates an empty farm: six empty plots, no seeds, no produce.
func NewFarmState() FarmState {
	return FarmState{
		Plots:     make([]*PlantedCrop, catalog.PlotCount),
		Inventory: []InventoryItem{},
		Produce:   []ProduceItem{},
	}
}

// Normalize repairs a state loaded from storage so the plot slice always has
// exactly the fixed plot count.
func (s *FarmState) Normalize() {
	if len(s.Plots) != catalog.PlotCount {
		plots := make([]*PlantedCrop, catalog.PlotCount)
		copy(plots, s.Plots)
		s.Plots = plots
	}
	if s.Inventory == nil {
		s.Inventory = []InventoryItem{}
	}
	if s.Produce == nil {
		s.Produce = []ProduceItem{}
	}
}

// Clone returns a deep copy of the farm state.
func (s FarmState) Clone() FarmState {
	out := FarmState{
		Plots:     make([]*PlantedCrop, len(s.Plots)),
		Inventory: make([]InventoryItem, len(s.Inventory)),
		Produce:   make([]ProduceItem, len(s.Produce)),
	}
	for i, p := range s.Plots {
		if p != nil {
			cp := *p
			out.Plots[i] = &cp
		}
	}
	copy(out.Inventory, s.Inventory)
	copy(out.Produce, s.Produce)
	return out
}

// InventoryQuantity returns the unplanted seed count for one seed type.
func (s FarmState) InventoryQuantity(seedID string) int {
	for _, it := range s.Inventory {
		if it.SeedID == seedID {
			return it.Quantity
		}
	}
	return 0
}

// TotalProduce sums harvested quantities across all seed types.
func (s FarmState) TotalProduce() int {
	total := 0
	for _, p := range s.Produce {
		total += p.Quantity
	}
	return total
}

// HarvestLog is one append-only harvest record. The message is flavor text
// from the text-generation collaborator, or a fixed fallback.
type HarvestLog struct {
	ID        string    `json:"id"`
	CropID    string    `json:"crop_id"`
	CropName  string    `json:"crop_name"`
	Icon      string    `json:"icon"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ExchangeForm is the delivery contact form submitted when redeeming produce.
// The redemption itself only depends on the produce threshold.
type ExchangeForm struct {
	Name    string `json:"name" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"required,max=30"`
	Address string `json:"address" binding:"required,max=300"`
}

// PlantRequest is the request body for planting a seed into a plot.
type PlantRequest struct {
	SeedID string `json:"seed_id" binding:"required"`
}
