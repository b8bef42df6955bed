package services

import (
	"context"

	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

type StatsService struct{ r repo.Stats }

func NewStatsService(r repo.Stats) *StatsService { return &StatsService{r: r} }

func (s *StatsService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	return s.r.Dashboard(ctx)
}
