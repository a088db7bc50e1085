package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/content"
)

const DefaultListLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Project, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	if filters.Tech != "" {
		filtered := list[:0]
		for _, project := range list {
			for _, tech := range project.Tech {
				if tech == filters.Tech {
					filtered = append(filtered, project)
					break
				}
			}
		}
		list = filtered
	}
	return list, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

type ProjectInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=200"`
	Description string   `json:"description" validate:"max=500"`
	ContentMD   string   `json:"content_md"`
	Image       string   `json:"image"`
	Tech        []string `json:"tech"`
	RepoURL     string   `json:"repo_url" validate:"omitempty,url"`
	DemoURL     string   `json:"demo_url" validate:"omitempty,url"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sort_order"`
	Draft       bool     `json:"draft"`
}

func (s *Service) Create(ctx context.Context, input ProjectInput) (*Project, error) {
	slug := input.Slug
	if slug == "" {
		slug = content.Slugify(input.Title)
	}

	now := time.Now().UTC()
	project := &Project{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        slug,
		Description: input.Description,
		ContentMD:   input.ContentMD,
		ContentHTML: content.RenderMarkdown(input.ContentMD),
		Image:       input.Image,
		Tech:        input.Tech,
		RepoURL:     input.RepoURL,
		DemoURL:     input.DemoURL,
		Featured:    input.Featured,
		SortOrder:   input.SortOrder,
		Draft:       input.Draft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, project *Project, input ProjectInput) (*Project, error) {
	if input.Title != "" {
		project.Title = input.Title
	}
	if input.Slug != "" {
		project.Slug = input.Slug
	}
	project.Description = input.Description
	if input.ContentMD != project.ContentMD {
		project.ContentMD = input.ContentMD
		project.ContentHTML = content.RenderMarkdown(input.ContentMD)
	}
	project.Image = input.Image
	if input.Tech != nil {
		project.Tech = input.Tech
	}
	project.RepoURL = input.RepoURL
	project.DemoURL = input.DemoURL
	project.Featured = input.Featured
	project.SortOrder = input.SortOrder
	project.Draft = input.Draft
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
