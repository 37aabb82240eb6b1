package service

import (
	"context"
	"time"

	"youguo-backend/internal/common/logger"
	"youguo-backend/internal/features/farm/engine"
	"youguo-backend/internal/features/farm/models"
	usermodels "youguo-backend/internal/features/user/models"
	"youguo-backend/internal/store"
)

// Store is the subset of the persistent store the farm service needs.
// Update carries every state-changing action so the balance check, the
// engine-computed transition and the persist land as one atomic step.
type Store interface {
	GetUser(ctx context.Context, userID string) (*usermodels.UserProfile, error)
	GetFarmState(ctx context.Context, userID string) (models.FarmState, error)
	GetHarvestHistory(ctx context.Context, userID string) ([]models.HarvestLog, error)
	UpdateHarvestMessage(ctx context.Context, userID, logID, message string) error
	Update(ctx context.Context, fn func(data *store.GlobalData) error) error
}

// TextGenerator produces harvest flavor text.
type TextGenerator interface {
	HarvestMessage(ctx context.Context, cropName string) (string, error)
}

// FarmView is the per-user farm snapshot returned by every farm operation.
type FarmView struct {
	Points    int                    `json:"points"`
	Plots     []*models.PlantedCrop  `json:"plots"`
	Inventory []models.InventoryItem `json:"inventory"`
	Produce   []models.ProduceItem   `json:"produce"`
}

// HarvestResult is the immediate outcome of a harvest. The log entry carries
// the fallback message until the flavor text resolves.
type HarvestResult struct {
	Farm FarmView          `json:"farm"`
	Log  models.HarvestLog `json:"log"`
}

type FarmService interface {
	GetFarm(ctx context.Context, userID string) (*FarmView, error)
	GetHistory(ctx context.Context, userID string) ([]models.HarvestLog, error)
	BuySeed(ctx context.Context, userID, seedID string) (*FarmView, error)
	Plant(ctx context.Context, userID string, plotIndex int, seedID string) (*FarmView, error)
	Water(ctx context.Context, userID string, plotIndex int) (*FarmView, error)
	Harvest(ctx context.Context, userID string, plotIndex int) (*HarvestResult, error)
	Exchange(ctx context.Context, userID string, form models.ExchangeForm) (*FarmView, error)
}

type farmService struct {
	store       Store
	textgen     TextGenerator
	textTimeout time.Duration
}

func NewFarmService(store Store, textgen TextGenerator, textTimeout time.Duration) FarmService {
	return &farmService{
		store:       store,
		textgen:     textgen,
		textTimeout: textTimeout,
	}
}

func (s *farmService) view(state models.FarmState, points int) *FarmView {
	return &FarmView{
		Points:    points,
		Plots:     state.Plots,
		Inventory: state.Inventory,
		Produce:   state.Produce,
	}
}

func (s *farmService) GetFarm(ctx context.Context, userID string) (*FarmView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	state, err := s.store.GetFarmState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(state, user.Points), nil
}

func (s *farmService) GetHistory(ctx context.Context, userID string) ([]models.HarvestLog, error) {
	return s.store.GetHarvestHistory(ctx, userID)
}

func (s *farmService) BuySeed(ctx context.Context, userID, seedID string) (*FarmView, error) {
	var result *FarmView
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		newState, newPoints, err := engine.BuySeed(data.UserFarm(userID), user.Points, seedID)
		if err != nil {
			return err
		}

		data.SetUserFarm(userID, newState)
		user.Points = newPoints
		result = s.view(newState, newPoints)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *farmService) Plant(ctx context.Context, userID string, plotIndex int, seedID string) (*FarmView, error) {
	var result *FarmView
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		newState, err := engine.Plant(data.UserFarm(userID), plotIndex, seedID, time.Now())
		if err != nil {
			return err
		}

		data.SetUserFarm(userID, newState)
		result = s.view(newState, user.Points)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *farmService) Water(ctx context.Context, userID string, plotIndex int) (*FarmView, error) {
	var result *FarmView
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		newState, newPoints, err := engine.Water(data.UserFarm(userID), user.Points, plotIndex, time.Now())
		if err != nil {
			return err
		}

		data.SetUserFarm(userID, newState)
		user.Points = newPoints
		result = s.view(newState, newPoints)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Harvest applies the economic effect synchronously: produce credited, plot
// cleared, log appended with the fallback message, all in one store mutation.
// Flavor-text enrichment runs afterwards with a bounded timeout and patches
// the log entry when it resolves; a collaborator failure leaves the fallback
// in place.
func (s *farmService) Harvest(ctx context.Context, userID string, plotIndex int) (*HarvestResult, error) {
	var result *HarvestResult
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		newState, log, err := engine.Harvest(data.UserFarm(userID), plotIndex, time.Now())
		if err != nil {
			return err
		}

		data.SetUserFarm(userID, newState)
		data.AppendHarvest(userID, log)
		result = &HarvestResult{
			Farm: *s.view(newState, user.Points),
			Log:  log,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.enrichHarvestMessage(userID, result.Log.ID, result.Log.CropName)

	return result, nil
}

func (s *farmService) enrichHarvestMessage(userID, logID, cropName string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.textTimeout)
	defer cancel()

	message, err := s.textgen.HarvestMessage(ctx, cropName)
	if err != nil {
		logger.Debug().Err(err).Str("crop", cropName).Msg("harvest message generation failed, fallback stays")
		return
	}

	if err := s.store.UpdateHarvestMessage(ctx, userID, logID, message); err != nil {
		logger.Error().Err(err).Str("log_id", logID).Msg("failed to patch harvest message")
	}
}

// Exchange redeems the produce box. The contact form only addresses physical
// fulfillment, which happens outside the system; no structured order is
// recorded beyond a log line.
func (s *farmService) Exchange(ctx context.Context, userID string, form models.ExchangeForm) (*FarmView, error) {
	var result *FarmView
	var redeemed int
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		state := data.UserFarm(userID)
		redeemed = state.TotalProduce()
		newState, err := engine.Exchange(state)
		if err != nil {
			return err
		}

		data.SetUserFarm(userID, newState)
		result = s.view(newState, user.Points)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("user_id", userID).
		Str("recipient", form.Name).
		Int("produce_redeemed", redeemed).
		Msg("produce exchange submitted")

	return result, nil
}
