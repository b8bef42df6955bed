package models

type DashboardStats struct {
	Projects         int64 `json:"projects"`
	Students         int64 `json:"students"`
	Tasks            int64 `json:"tasks"`
	FinishedProjects int64 `json:"finishedProjects"`
}
