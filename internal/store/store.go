// Package store owns the global aggregate. It is constructed once at process
// start with an injected durable backend and is the only writer to it: every
// mutating operation updates the in-memory aggregate and then replaces the
// whole persisted document before returning.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"youguo-backend/internal/catalog"
	"youguo-backend/internal/common/logger"
	farmmodels "youguo-backend/internal/features/farm/models"
	taskmodels "youguo-backend/internal/features/task/models"
	usermodels "youguo-backend/internal/features/user/models"
)

// ErrUserNotFound is returned when no account matches the given id.
var ErrUserNotFound = errors.New("user not found")

// Store holds the authoritative in-memory aggregate over a durable backend.
type Store struct {
	mu         sync.RWMutex
	storage    Storage
	adminEmail string
	data       *GlobalData
}

// New loads the persisted aggregate from the backend. An absent blob
// initializes an empty aggregate and writes it immediately. A corrupt or
// version-mismatched blob is unrecoverable for that record: it is logged,
// discarded and replaced with a fresh empty aggregate.
func New(ctx context.Context, storage Storage, adminEmail string) (*Store, error) {
	s := &Store{
		storage:    storage,
		adminEmail: adminEmail,
	}

	blob, err := storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNoData):
		s.data = newGlobalData()
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load persisted data: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil || env.Data == nil || env.SchemaVersion != schemaVersion {
		logger.Error().
			Err(err).
			Int("schema_version", env.SchemaVersion).
			Msg("persisted data unreadable, reinitializing empty store")
		s.data = newGlobalData()
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.data = env.Data
	if s.data.FarmStates == nil {
		s.data.FarmStates = map[string]farmmodels.FarmState{}
	}
	if s.data.HarvestHistory == nil {
		s.data.HarvestHistory = map[string][]farmmodels.HarvestLog{}
	}
	return s, nil
}

// persist serializes the whole aggregate and replaces the durable blob.
// Callers must hold the write lock.
func (s *Store) persist(ctx context.Context) error {
	blob, err := json.Marshal(envelope{SchemaVersion: schemaVersion, Data: s.data})
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}
	if err := s.storage.Save(ctx, blob); err != nil {
		return fmt.Errorf("failed to save aggregate: %w", err)
	}
	return nil
}

// Update runs fn against the aggregate under the write lock and persists the
// result once fn succeeds. When fn returns an error nothing is written, so a
// read-validate-mutate sequence inside fn is atomic against every other store
// operation: either the whole mutation lands durably or none of it does.
func (s *Store) Update(ctx context.Context, fn func(data *GlobalData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.data); err != nil {
		return err
	}
	return s.persist(ctx)
}

// SyncUser looks an account up by email. A new identity gets a fresh profile
// with the starting balance plus an empty farm and harvest history; the
// ADMIN role is granted only here, when the email matches the configured
// administrator address. A returning identity only has its display fields
// refreshed — role, status and points are preserved.
func (s *Store) SyncUser(ctx context.Context, identity usermodels.Identity) (*usermodels.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user := s.data.userByEmail(identity.Email); user != nil {
		user.Name = identity.Name
		user.Picture = identity.Picture
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
		out := *user
		return &out, nil
	}

	role := usermodels.RoleUser
	if identity.Email == s.adminEmail {
		role = usermodels.RoleAdmin
	}

	user := usermodels.UserProfile{
		ID:       uuid.New().String(),
		Name:     identity.Name,
		Email:    identity.Email,
		Picture:  identity.Picture,
		Role:     role,
		Status:   usermodels.StatusActive,
		Points:   catalog.StartingPoints,
		JoinedAt: time.Now(),
	}

	s.data.Users = append(s.data.Users, user)
	s.data.FarmStates[user.ID] = farmmodels.NewFarmState()
	s.data.HarvestHistory[user.ID] = []farmmodels.HarvestLog{}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := user
	return &out, nil
}

// GetUser returns the profile for an account id.
func (s *Store) GetUser(_ context.Context, userID string) (*usermodels.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := s.data.UserByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

// GetTasks returns the life tasks owned by one user.
func (s *Store) GetTasks(_ context.Context, userID string) ([]taskmodels.LifeTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []taskmodels.LifeTask
	for _, t := range s.data.Tasks {
		if t.UserID == userID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

// AddTask appends a new life task.
func (s *Store) AddTask(ctx context.Context, task taskmodels.LifeTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Tasks = append(s.data.Tasks, cloneTask(task))
	return s.persist(ctx)
}

// UpdateTask replaces a task matched by id and owner. A missing match is a
// silent no-op.
func (s *Store) UpdateTask(ctx context.Context, userID string, task taskmodels.LifeTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Tasks {
		if s.data.Tasks[i].ID == task.ID && s.data.Tasks[i].UserID == userID {
			s.data.Tasks[i] = cloneTask(task)
			return s.persist(ctx)
		}
	}
	return nil
}

// GetFarmState returns the farm for one user, or a default empty farm if
// none has been allocated yet.
func (s *Store) GetFarmState(_ context.Context, userID string) (farmmodels.FarmState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data.FarmStates[userID]
	if !ok {
		return farmmodels.NewFarmState(), nil
	}
	state.Normalize()
	return state.Clone(), nil
}

// SaveFarmState replaces the whole farm for one user.
func (s *Store) SaveFarmState(ctx context.Context, userID string, state farmmodels.FarmState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.FarmStates[userID] = state.Clone()
	return s.persist(ctx)
}

// GetHarvestHistory returns the append-only harvest log for one user.
func (s *Store) GetHarvestHistory(_ context.Context, userID string) ([]farmmodels.HarvestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data.HarvestHistory[userID]
	out := make([]farmmodels.HarvestLog, len(history))
	copy(out, history)
	return out, nil
}

// SaveHarvestHistory replaces the whole harvest log for one user.
func (s *Store) SaveHarvestHistory(ctx context.Context, userID string, history []farmmodels.HarvestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]farmmodels.HarvestLog, len(history))
	copy(out, history)
	s.data.HarvestHistory[userID] = out
	return s.persist(ctx)
}

// UpdateHarvestMessage patches the flavor text of one harvest log entry once
// the text-generation collaborator resolves. A missing entry is a no-op.
func (s *Store) UpdateHarvestMessage(ctx context.Context, userID, logID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.data.HarvestHistory[userID]
	for i := range history {
		if history[i].ID == logID {
			history[i].Message = message
			return s.persist(ctx)
		}
	}
	return nil
}

// UpdateUserPoints overwrites a user's point balance. Bounds are the
// engine's responsibility, not this layer's.
func (s *Store) UpdateUserPoints(ctx context.Context, userID string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.data.UserByID(userID)
	if user == nil {
		return ErrUserNotFound
	}
	user.Points = points
	return s.persist(ctx)
}

// SetStatus overwrites one account's moderation status.
func (s *Store) SetStatus(ctx context.Context, userID string, status usermodels.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.data.UserByID(userID)
	if user == nil {
		return ErrUserNotFound
	}
	user.Status = status
	return s.persist(ctx)
}

// SetRole overwrites one account's role.
func (s *Store) SetRole(ctx context.Context, userID string, role usermodels.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.data.UserByID(userID)
	if user == nil {
		return ErrUserNotFound
	}
	user.Role = role
	return s.persist(ctx)
}

// Snapshot returns a deep copy of the whole aggregate for administrative
// reads. Admin mutations go through SetStatus and SetRole, never through the
// snapshot.
func (s *Store) Snapshot(_ context.Context) (*GlobalData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, err := json.Marshal(s.data)
	if err != nil {
		return nil, err
	}
	out := newGlobalData()
	if err := json.Unmarshal(blob, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset discards the whole aggregate and the persisted blob. No prior user
// data is recoverable afterwards.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Reset(ctx); err != nil {
		return err
	}
	s.data = newGlobalData()
	return s.persist(ctx)
}

func cloneTask(t taskmodels.LifeTask) taskmodels.LifeTask {
	out := t
	out.SubTasks = make([]taskmodels.SubTask, len(t.SubTasks))
	copy(out.SubTasks, t.SubTasks)
	return out
}
