package models

import (
	"slices"
	"time"
)

const (
	MinProgress = 0
	MaxProgress = 100
)

type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CategoryID  string     `json:"categoryId"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	MemberIDs   []string   `json:"memberIds"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p Project) HasMember(userID string) bool { return slices.Contains(p.MemberIDs, userID) }

// DatesOrdered reports whether start <= end when both are set.
func (p Project) DatesOrdered() bool {
	if p.StartDate == nil || p.EndDate == nil {
		return true
	}
	return !p.StartDate.After(*p.EndDate)
}

func ClampProgress(v int) int {
	return min(max(v, MinProgress), MaxProgress)
}
