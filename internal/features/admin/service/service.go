// Package service computes read-only statistics and heuristic anomaly flags
// over the global aggregate. Flags are advisory only: nothing here enforces
// anything automatically. The only mutations are the status/role overwrites,
// which delegate to the store.
package service

import (
	"context"
	"errors"

	"youguo-backend/internal/features/admin/models"
	usermodels "youguo-backend/internal/features/user/models"
	"youguo-backend/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the subset of the persistent store the admin service needs.
type Store interface {
	Snapshot(ctx context.Context) (*store.GlobalData, error)
	SetStatus(ctx context.Context, userID string, status usermodels.Status) error
	SetRole(ctx context.Context, userID string, role usermodels.Role) error
	Reset(ctx context.Context) error
}

type AdminService interface {
	SystemStats(ctx context.Context) (*models.SystemStats, error)
	ListUsers(ctx context.Context) ([]models.UserOverview, error)
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	SetStatus(ctx context.Context, userID string, status usermodels.Status) error
	SetRole(ctx context.Context, userID string, role usermodels.Role) error
	Reset(ctx context.Context) error
}

type adminService struct {
	store Store
}

func NewAdminService(s Store) AdminService {
	return &adminService{store: s}
}

func (s *adminService) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.SystemStats{}
	for _, u := range data.Users {
		stats.TotalPoints += u.Points
	}
	for _, t := range data.Tasks {
		stats.TotalSubTasks += len(t.SubTasks)
	}
	for _, state := range data.FarmStates {
		stats.TotalProduce += state.TotalProduce()
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.UserOverview, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserOverview, 0, len(data.Users))
	for _, u := range data.Users {
		stats := userStats(data, u.ID)
		out = append(out, models.UserOverview{
			User:             u,
			Stats:            stats,
			SuspiciousReason: suspiciousReason(u.Points, stats.CompletedSubTasks),
		})
	}
	return out, nil
}

func (s *adminService) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range data.Users {
		if u.ID == userID {
			stats := userStats(data, userID)
			return &stats, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *adminService) SetStatus(ctx context.Context, userID string, status usermodels.Status) error {
	if err := s.store.SetStatus(ctx, userID, status); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *adminService) SetRole(ctx context.Context, userID string, role usermodels.Role) error {
	if err := s.store.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *adminService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func userStats(data *store.GlobalData, userID string) models.UserStats {
	stats := models.UserStats{}
	for _, t := range data.Tasks {
		if t.UserID != userID {
			continue
		}
		stats.TaskCount++
		stats.CompletedSubTasks += t.CompletedSubTasks()
	}
	if state, ok := data.FarmStates[userID]; ok {
		stats.ProduceCount = state.TotalProduce()
	}
	return stats
}

// suspiciousReason evaluates the anomaly heuristics in priority order. An
// empty string means no flag.
func suspiciousReason(points, completedSubTasks int) string {
	switch {
	case points > 3000:
		return "極高點數 (溢出)"
	case points > 500 && completedSubTasks == 0:
		return "無任務異常獲點"
	case points > 1000 && completedSubTasks < 3:
		return "點數/任務比例失衡"
	default:
		return ""
	}
}
