package store

import (
	farmmodels "youguo-backend/internal/features/farm/models"
	taskmodels "youguo-backend/internal/features/task/models"
	usermodels "youguo-backend/internal/features/user/models"
)

// schemaVersion tags the persisted envelope so a future model change can be
// detected instead of silently misparsed.
const schemaVersion = 1

// GlobalData is the root aggregate: every account, every task, and the
// per-user farm and harvest records. One instance lives for the whole
// process and is serialized wholesale on every mutation.
type GlobalData struct {
	Users          []usermodels.UserProfile           `json:"users"`
	Tasks          []taskmodels.LifeTask              `json:"tasks"`
	FarmStates     map[string]farmmodels.FarmState    `json:"farm_states"`
	HarvestHistory map[string][]farmmodels.HarvestLog `json:"harvest_history"`
}

type envelope struct {
	SchemaVersion int         `json:"schema_version"`
	Data          *GlobalData `json:"data"`
}

func newGlobalData() *GlobalData {
	return &GlobalData{
		Users:          []usermodels.UserProfile{},
		Tasks:          []taskmodels.LifeTask{},
		FarmStates:     map[string]farmmodels.FarmState{},
		HarvestHistory: map[string][]farmmodels.HarvestLog{},
	}
}

func (d *GlobalData) userByEmail(email string) *usermodels.UserProfile {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// UserByID returns a pointer into the aggregate, or nil when no account
// matches. Only valid while the store lock is held; callers outside the store
// package reach here through Store.Update.
func (d *GlobalData) UserByID(id string) *usermodels.UserProfile {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// TaskByID returns a pointer to the task matched by id and owner, or nil.
// Same locking contract as UserByID.
func (d *GlobalData) TaskByID(userID, taskID string) *taskmodels.LifeTask {
	for i := range d.Tasks {
		if d.Tasks[i].ID == taskID && d.Tasks[i].UserID == userID {
			return &d.Tasks[i]
		}
	}
	return nil
}

// UserFarm returns a normalized deep copy of one user's farm, or a default
// empty farm when none has been allocated yet.
func (d *GlobalData) UserFarm(userID string) farmmodels.FarmState {
	state, ok := d.FarmStates[userID]
	if !ok {
		return farmmodels.NewFarmState()
	}
	state.Normalize()
	return state.Clone()
}

// SetUserFarm replaces one user's farm with a deep copy of the given state.
func (d *GlobalData) SetUserFarm(userID string, state farmmodels.FarmState) {
	d.FarmStates[userID] = state.Clone()
}

// AppendHarvest appends one entry to a user's harvest log.
func (d *GlobalData) AppendHarvest(userID string, log farmmodels.HarvestLog) {
	d.HarvestHistory[userID] = append(d.HarvestHistory[userID], log)
}
