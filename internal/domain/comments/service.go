package comments

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/sanitize"
)

const deletedPlaceholder = "[comment removed]"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForPost returns a post's comments with soft-deleted entries
// replaced by a placeholder so threads keep their shape.
func (s *Service) ListForPost(ctx context.Context, postID uuid.UUID) ([]Comment, error) {
	list, err := s.repo.ListForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Deleted {
			list[i].Content = deletedPlaceholder
			list[i].AuthorEmail = ""
		}
	}
	return list, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Comment, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}

type CommentInput struct {
	AuthorName  string `json:"author_name" validate:"omitempty,min=1,max=100"`
	AuthorEmail string `json:"author_email" validate:"omitempty,email"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
}

// Create stores a new comment. When an account is present its identity
// wins over any guest fields; guests get a gravatar from their email.
func (s *Service) Create(ctx context.Context, postID uuid.UUID, account *accounts.Account, input CommentInput) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		Content:   sanitize.Text(input.Content),
		CreatedAt: time.Now().UTC(),
	}

	if account != nil {
		comment.AccountID = &account.ID
		comment.AuthorName = account.Name
		comment.AuthorEmail = account.Email
		comment.AvatarURL = account.AvatarURL
		if comment.AvatarURL == "" {
			comment.AvatarURL = GravatarURL(account.Email)
		}
	} else {
		comment.AuthorName = strings.TrimSpace(input.AuthorName)
		if comment.AuthorName == "" {
			comment.AuthorName = "Anonymous"
		}
		comment.AuthorEmail = strings.TrimSpace(input.AuthorEmail)
		comment.AvatarURL = GravatarURL(comment.AuthorEmail)
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDeleted(ctx, id, true)
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDeleted(ctx, id, false)
}

// GravatarURL builds the avatar URL for an email per the gravatar spec.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}
