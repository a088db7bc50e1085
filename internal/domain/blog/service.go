package blog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/content"
)

const DefaultListLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns published posts matching the filters. Tag filtering is
// applied after the query since tags are stored as a JSON array.
func (s *Service) List(ctx context.Context, filters Filters) ([]Post, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	posts, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	if filters.Tag != "" {
		filtered := posts[:0]
		for _, post := range posts {
			for _, tag := range post.Tags {
				if tag == filters.Tag {
					filtered = append(filtered, post)
					break
				}
			}
		}
		posts = filtered
	}
	return posts, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

type PostInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=200"`
	Description string   `json:"description" validate:"max=500"`
	ContentMD   string   `json:"content_md"`
	Image       string   `json:"image"`
	Category    string   `json:"category" validate:"max=50"`
	Tags        []string `json:"tags"`
	Draft       bool     `json:"draft"`
	Lang        string   `json:"lang" validate:"omitempty,max=5"`
}

func (s *Service) Create(ctx context.Context, input PostInput) (*Post, error) {
	slug := input.Slug
	if slug == "" {
		slug = content.Slugify(input.Title)
	}
	category := input.Category
	if category == "" {
		category = "general"
	}
	lang := input.Lang
	if lang == "" {
		lang = "pt"
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        slug,
		Description: input.Description,
		ContentMD:   input.ContentMD,
		ContentHTML: content.RenderMarkdown(input.ContentMD),
		Image:       input.Image,
		Category:    category,
		Tags:        input.Tags,
		Draft:       input.Draft,
		Lang:        lang,
		ReadingTime: content.ReadingTime(input.ContentMD),
		PublishedAt: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Service) Update(ctx context.Context, post *Post, input PostInput) (*Post, error) {
	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Slug != "" {
		post.Slug = input.Slug
	}
	post.Description = input.Description
	if input.ContentMD != post.ContentMD {
		post.ContentMD = input.ContentMD
		post.ContentHTML = content.RenderMarkdown(input.ContentMD)
		post.ReadingTime = content.ReadingTime(input.ContentMD)
	}
	post.Image = input.Image
	if input.Category != "" {
		post.Category = input.Category
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}
	post.Draft = input.Draft
	if input.Lang != "" {
		post.Lang = input.Lang
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// IncrementViews bumps the per-post counter. Distinct from pageview
// analytics, which track requests across all routes.
func (s *Service) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementViews(ctx, id)
}

func (s *Service) CategoriesWithCount(ctx context.Context) ([]CategoryCount, error) {
	return s.repo.CategoriesWithCount(ctx)
}

// TagsWithCount aggregates tags across recent published posts.
func (s *Service) TagsWithCount(ctx context.Context) ([]TagCount, error) {
	posts, err := s.repo.List(ctx, Filters{Limit: 500})
	if err != nil {
		return nil, err
	}

	counter := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				counter[tag]++
			}
		}
	}

	counts := make([]TagCount, 0, len(counter))
	for tag, count := range counter {
		counts = append(counts, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Tag < counts[j].Tag })
	return counts, nil
}

func (s *Service) AddReaction(ctx context.Context, postID uuid.UUID, reactionType string) (*Reaction, error) {
	if reactionType == "" {
		reactionType = "like"
	}
	return s.repo.UpsertReaction(ctx, postID, reactionType)
}

func (s *Service) ReactionCounts(ctx context.Context, postID uuid.UUID) (map[string]int, error) {
	return s.repo.ReactionCounts(ctx, postID)
}
