package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"youguo-backend/internal/features/farm/engine"
	"youguo-backend/internal/features/farm/models"
	usermodels "youguo-backend/internal/features/user/models"
	"youguo-backend/internal/store"
)

type mockTextGenerator struct {
	mock.Mock
}

func (m *mockTextGenerator) HarvestMessage(ctx context.Context, cropName string) (string, error) {
	args := m.Called(ctx, cropName)
	return args.String(0), args.Error(1)
}

// flakyStorage is a MemoryStorage whose Save can be switched to fail, for
// exercising persistence errors mid-action.
type flakyStorage struct {
	*store.MemoryStorage
	mu       sync.Mutex
	failSave bool
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{MemoryStorage: store.NewMemoryStorage()}
}

func (s *flakyStorage) FailSaves(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = fail
}

func (s *flakyStorage) Save(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return errors.New("backend unavailable")
	}
	return s.MemoryStorage.Save(ctx, blob)
}

type fixture struct {
	svc     FarmService
	store   *store.Store
	storage *flakyStorage
	textgen *mockTextGenerator
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := newFlakyStorage()
	st, err := store.New(context.Background(), storage, "admin@example.com")
	require.NoError(t, err)

	user, err := st.SyncUser(context.Background(), usermodels.Identity{
		Subject: "sub-1",
		Name:    "Tester",
		Email:   "farmer@example.com",
	})
	require.NoError(t, err)

	textgen := new(mockTextGenerator)
	return &fixture{
		svc:     NewFarmService(st, textgen, time.Second),
		store:   st,
		storage: storage,
		textgen: textgen,
		userID:  user.ID,
	}
}

func (f *fixture) setPoints(t *testing.T, points int) {
	t.Helper()
	require.NoError(t, f.store.UpdateUserPoints(context.Background(), f.userID, points))
}

func (f *fixture) setFarm(t *testing.T, state models.FarmState) {
	t.Helper()
	require.NoError(t, f.store.SaveFarmState(context.Background(), f.userID, state))
}

func (f *fixture) points(t *testing.T) int {
	t.Helper()
	user, err := f.store.GetUser(context.Background(), f.userID)
	require.NoError(t, err)
	return user.Points
}

func harvestableFarm(seedID string) models.FarmState {
	state := models.NewFarmState()
	state.Plots[0] = &models.PlantedCrop{
		ID:     "crop-1",
		SeedID: seedID,
		Stage:  models.StageHarvestable,
	}
	return state
}

func TestGetFarm(t *testing.T) {
	f := newFixture(t)
	f.setPoints(t, 75)

	view, err := f.svc.GetFarm(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 75, view.Points)
	assert.Len(t, view.Plots, 6)
	assert.Empty(t, view.Inventory)
}

func TestBuySeed(t *testing.T) {
	t.Run("persists state and balance", func(t *testing.T) {
		f := newFixture(t)

		view, err := f.svc.BuySeed(context.Background(), f.userID, "carrot")
		require.NoError(t, err)
		assert.Equal(t, 50, view.Points)
		assert.Equal(t, 1, view.Inventory[0].Quantity)

		// Survives a reload from the durable blob.
		reloaded, err := store.New(context.Background(), f.storage, "admin@example.com")
		require.NoError(t, err)
		state, err := reloaded.GetFarmState(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 1, state.InventoryQuantity("carrot"))
		user, err := reloaded.GetUser(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 50, user.Points)
	})

	t.Run("rejection changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.setPoints(t, 10)

		_, err := f.svc.BuySeed(context.Background(), f.userID, "carrot")
		assert.ErrorIs(t, err, engine.ErrInsufficientPoints)
		assert.Equal(t, 10, f.points(t))
	})

	t.Run("save failure leaves durable state unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.storage.FailSaves(true)

		_, err := f.svc.BuySeed(context.Background(), f.userID, "carrot")
		require.Error(t, err)

		f.storage.FailSaves(false)
		reloaded, err := store.New(context.Background(), f.storage, "admin@example.com")
		require.NoError(t, err)
		user, err := reloaded.GetUser(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 100, user.Points)
		state, err := reloaded.GetFarmState(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Zero(t, state.InventoryQuantity("carrot"))
	})
}

func TestWater(t *testing.T) {
	t.Run("charges the watering cost", func(t *testing.T) {
		f := newFixture(t)
		f.setPoints(t, 20)
		state := models.NewFarmState()
		state.Plots[2] = &models.PlantedCrop{ID: "crop-1", SeedID: "tomato", Stage: models.StageSeed}
		f.setFarm(t, state)

		view, err := f.svc.Water(context.Background(), f.userID, 2)
		require.NoError(t, err)
		assert.Equal(t, 15, view.Points)
		assert.Equal(t, 1, view.Plots[2].WaterCount)
	})

	t.Run("concurrent waterings each charge exactly once", func(t *testing.T) {
		f := newFixture(t)
		state := models.NewFarmState()
		state.Plots[0] = &models.PlantedCrop{ID: "crop-1", SeedID: "carrot", Stage: models.StageSeed}
		f.setFarm(t, state)

		const calls = 8
		var wg sync.WaitGroup
		for i := 0; i < calls; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Water(context.Background(), f.userID, 0)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// 100 - 8*5: no deduction may be lost to an interleaved writer.
		assert.Equal(t, 60, f.points(t))
	})
}

func TestHarvest(t *testing.T) {
	t.Run("returns fallback message immediately and patches it later", func(t *testing.T) {
		f := newFixture(t)
		f.setFarm(t, harvestableFarm("carrot"))
		f.textgen.On("HarvestMessage", mock.Anything, "胡蘿蔔").Return("豐收的滋味", nil)

		result, err := f.svc.Harvest(context.Background(), f.userID, 0)
		require.NoError(t, err)

		// The synchronous result always carries the fallback.
		assert.Equal(t, engine.FallbackHarvestMessage, result.Log.Message)
		assert.Nil(t, result.Farm.Plots[0])
		assert.Equal(t, 1, result.Farm.Produce[0].Quantity)

		assert.Eventually(t, func() bool {
			history, err := f.store.GetHarvestHistory(context.Background(), f.userID)
			if err != nil || len(history) != 1 {
				return false
			}
			return history[0].Message == "豐收的滋味"
		}, 2*time.Second, 10*time.Millisecond, "harvest message was never patched")
	})

	t.Run("generator failure leaves fallback in place", func(t *testing.T) {
		f := newFixture(t)
		f.setFarm(t, harvestableFarm("carrot"))

		failed := make(chan struct{}, 1)
		f.textgen.On("HarvestMessage", mock.Anything, "胡蘿蔔").
			Run(func(mock.Arguments) { failed <- struct{}{} }).
			Return("", errors.New("api unavailable"))

		result, err := f.svc.Harvest(context.Background(), f.userID, 0)
		require.NoError(t, err)
		assert.Equal(t, engine.FallbackHarvestMessage, result.Log.Message)

		select {
		case <-failed:
		case <-time.After(2 * time.Second):
			t.Fatal("generator was never consulted")
		}
		// Give the goroutine a beat, then verify the log kept the fallback.
		time.Sleep(50 * time.Millisecond)
		history, err := f.store.GetHarvestHistory(context.Background(), f.userID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, engine.FallbackHarvestMessage, history[0].Message)
	})

	t.Run("not harvestable is rejected", func(t *testing.T) {
		f := newFixture(t)
		state := harvestableFarm("carrot")
		state.Plots[0].Stage = models.StageGrowing
		f.setFarm(t, state)

		_, err := f.svc.Harvest(context.Background(), f.userID, 0)
		assert.ErrorIs(t, err, engine.ErrNotHarvestable)
	})

	t.Run("concurrent harvests of one plot succeed exactly once", func(t *testing.T) {
		f := newFixture(t)
		f.setFarm(t, harvestableFarm("carrot"))
		f.textgen.On("HarvestMessage", mock.Anything, mock.Anything).
			Return("", errors.New("api unavailable")).Maybe()

		const calls = 8
		var wg sync.WaitGroup
		results := make([]error, calls)
		for i := 0; i < calls; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := f.svc.Harvest(context.Background(), f.userID, 0)
				results[i] = err
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, engine.ErrPlotEmpty)
			}
		}
		assert.Equal(t, 1, succeeded)

		history, err := f.store.GetHarvestHistory(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
		state, err := f.store.GetFarmState(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 1, state.TotalProduce())
	})
}

func TestExchange(t *testing.T) {
	form := models.ExchangeForm{Name: "王小明", Phone: "0912345678", Address: "台北市信義區"}

	t.Run("consumes produce at threshold", func(t *testing.T) {
		f := newFixture(t)
		state := models.NewFarmState()
		state.Produce = []models.ProduceItem{{SeedID: "carrot", Quantity: 10}}
		f.setFarm(t, state)

		view, err := f.svc.Exchange(context.Background(), f.userID, form)
		require.NoError(t, err)
		assert.Empty(t, view.Produce)

		stored, err := f.store.GetFarmState(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Zero(t, stored.TotalProduce())
	})

	t.Run("below threshold is rejected", func(t *testing.T) {
		f := newFixture(t)
		state := models.NewFarmState()
		state.Produce = []models.ProduceItem{{SeedID: "carrot", Quantity: 9}}
		f.setFarm(t, state)

		_, err := f.svc.Exchange(context.Background(), f.userID, form)
		assert.ErrorIs(t, err, engine.ErrNotEnoughProduce)
		stored, err := f.store.GetFarmState(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 9, stored.TotalProduce())
	})
}
