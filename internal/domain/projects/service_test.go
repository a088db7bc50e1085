package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	projects map[uuid.UUID]*Project
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: make(map[uuid.UUID]*Project)}
}

func (f *fakeRepo) List(_ context.Context, filters Filters) ([]Project, error) {
	var out []Project
	for _, p := range f.projects {
		if p.Draft && !filters.IncludeDrafts {
			continue
		}
		if filters.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(_ context.Context, project *Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeRepo) Update(_ context.Context, project *Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return ErrNotFound
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func TestCreateGeneratesSlug(t *testing.T) {
	svc := NewService(newFakeRepo())

	project, err := svc.Create(context.Background(), ProjectInput{
		Title:     "My Cool Project",
		ContentMD: "A **great** project.",
		Tech:      []string{"go", "postgres"},
	})
	require.NoError(t, err)
	require.Equal(t, "my-cool-project", project.Slug)
	require.Contains(t, project.ContentHTML, "<strong>great</strong>")
}

func TestListFiltersByTechInService(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), ProjectInput{Title: "API", Tech: []string{"go"}})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ProjectInput{Title: "Frontend", Tech: []string{"typescript"}})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), Filters{Tech: "go"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "API", list[0].Title)
}

func TestListFeaturedOnly(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), ProjectInput{Title: "Headline", Featured: true})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ProjectInput{Title: "Background"})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), Filters{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Headline", list[0].Title)
}

func TestUpdateRerendersContent(t *testing.T) {
	svc := NewService(newFakeRepo())

	project, err := svc.Create(context.Background(), ProjectInput{Title: "Project", ContentMD: "original"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), project, ProjectInput{Title: "Project", ContentMD: "now *italic*"})
	require.NoError(t, err)
	require.Contains(t, updated.ContentHTML, "<em>italic</em>")
}

func TestDeleteRemovesProject(t *testing.T) {
	svc := NewService(newFakeRepo())

	project, err := svc.Create(context.Background(), ProjectInput{Title: "Project"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), project.ID))

	_, err = svc.GetByID(context.Background(), project.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
