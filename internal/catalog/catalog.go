// Package catalog holds the fixed game-economy constants: the seed types
// and the point values attached to sub-task difficulties. The catalog is
// compiled in; there is no runtime seed administration.
package catalog

// Economy constants.
const (
	// WateringCost is charged on every valid watering.
	WateringCost = 5
	// ExchangeRequirement is the produce total needed for a goods box.
	ExchangeRequirement = 10
	// PlotCount is the number of plots on every farm.
	PlotCount = 6
	// StartingPoints is the welcome balance for a new account.
	StartingPoints = 100
)

// Point values per sub-task difficulty.
const (
	PointsEasy   = 10
	PointsMedium = 30
	PointsHard   = 60
)

// SeedType describes one purchasable seed.
type SeedType struct {
	ID string `json:"id"`
	// Name is the display name shown to users.
	Name string `json:"name"`
	Icon string `json:"icon"`
	// Price in points.
	Price int `json:"price"`
	// GrowthSteps is the number of waterings needed per stage advance.
	GrowthSteps int `json:"growthSteps"`
	// HarvestAmount is the produce credited on harvest.
	HarvestAmount int `json:"harvestAmount"`
}

// Seeds is the full catalog, cheapest first.
var Seeds = []SeedType{
	{ID: "carrot", Name: "胡蘿蔔", Icon: "🥕", Price: 50, GrowthSteps: 2, HarvestAmount: 1},
	{ID: "tomato", Name: "番茄", Icon: "🍅", Price: 80, GrowthSteps: 3, HarvestAmount: 1},
	{ID: "broccoli", Name: "青花菜", Icon: "🥦", Price: 120, GrowthSteps: 4, HarvestAmount: 2},
	{ID: "apple", Name: "蘋果", Icon: "🍎", Price: 200, GrowthSteps: 6, HarvestAmount: 3},
}

// SeedByID looks up a seed type by its ID.
func SeedByID(id string) (SeedType, bool) {
	for _, s := range Seeds {
		if s.ID == id {
			return s, true
		}
	}
	return SeedType{}, false
}
