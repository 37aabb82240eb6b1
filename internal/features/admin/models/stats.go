package models

import usermodels "youguo-backend/internal/features/user/models"

// SystemStats aggregates the whole system: points in circulation, sub-tasks
// ever created (completed or not), and produce sitting in farm states.
type SystemStats struct {
	TotalPoints   int `json:"total_points"`
	TotalSubTasks int `json:"total_sub_tasks"`
	TotalProduce  int `json:"total_produce"`
}

// UserStats summarizes one user's activity.
type UserStats struct {
	TaskCount         int `json:"task_count"`
	CompletedSubTasks int `json:"completed_sub_tasks"`
	ProduceCount      int `json:"produce_count"`
}

// UserOverview is one row of the admin user list: the profile, activity
// stats, and the heuristic anomaly flag (empty when nothing looks off).
type UserOverview struct {
	User             usermodels.UserProfile `json:"user"`
	Stats            UserStats              `json:"stats"`
	SuspiciousReason string                 `json:"suspicious_reason,omitempty"`
}
