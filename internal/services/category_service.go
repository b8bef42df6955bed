package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

const maxNameLen = 100

type CategoryService struct {
	r        repo.Categories
	projects repo.Projects
	audit    *Auditor
}

func NewCategoryService(r repo.Categories, projects repo.Projects, audit *Auditor) *CategoryService {
	return &CategoryService{r: r, projects: projects, audit: audit}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) { return s.r.List(ctx) }

func (s *CategoryService) Get(ctx context.Context, id string) (models.Category, error) {
	c, err := s.r.GetByID(ctx, id)
	return c, notFound(err, "category")
}

func (s *CategoryService) Create(ctx context.Context, actor auth.Identity, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validate.Collect(
		validate.Required("name", name),
		validate.MaxLen("name", name, maxNameLen),
	); err != nil {
		return models.Category{}, err
	}
	c, err := s.r.Create(ctx, name)
	if err != nil {
		return models.Category{}, conflict(err, "category already exists")
	}
	s.audit.Record(actor.UserID, models.EntityCategory, c.ID, "create", map[string]any{"name": c.Name})
	return c, nil
}

// Delete refuses while any project still points at the category.
func (s *CategoryService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.projects.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Validation(fmt.Sprintf("category is used by %d project(s)", n))
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return notFound(err, "category")
	}
	s.audit.Record(actor.UserID, models.EntityCategory, id, "delete", nil)
	return nil
}
