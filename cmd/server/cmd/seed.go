package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oornnery/site/internal/config"
	"github.com/oornnery/site/internal/domain/accounts"
	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
	"github.com/oornnery/site/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample content",
	Long: `Creates the admin account (from ADMIN_* env vars), the owner
profile, and a few sample posts and projects. Safe to run repeatedly:
existing content is left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		return runSeed(cmd, cfg)
	},
}

func runSeed(cmd *cobra.Command, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.MigrateUp(cfg.Database.URL, postgres.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Logging)
	accountsSvc := accounts.NewService(repo.Accounts())
	if err := bootstrapAdmin(ctx, cfg, accountsSvc, logger); err != nil {
		return err
	}

	profilesSvc := profiles.NewService(repo.Profiles())
	if _, err := profilesSvc.Update(ctx, profiles.ProfileInput{
		Name:     "Site Owner",
		Headline: "Software engineer",
		BioMD:    "Building things for the web. This profile is seed data; edit it in the admin app.",
		Socials:  map[string]string{"github": "https://github.com/oornnery"},
		Skills:   []string{"Go", "Python", "PostgreSQL"},
	}); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	postsSvc := blog.NewService(repo.Posts())
	for _, input := range samplePosts() {
		if _, err := postsSvc.GetBySlug(ctx, input.Slug); err == nil {
			continue
		} else if !errors.Is(err, blog.ErrNotFound) {
			return fmt.Errorf("check post %s: %w", input.Slug, err)
		}
		if _, err := postsSvc.Create(ctx, input); err != nil {
			return fmt.Errorf("seed post %s: %w", input.Slug, err)
		}
	}

	projectsSvc := projects.NewService(repo.Projects())
	for _, input := range sampleProjects() {
		if _, err := projectsSvc.GetBySlug(ctx, input.Slug); err == nil {
			continue
		} else if !errors.Is(err, projects.ErrNotFound) {
			return fmt.Errorf("check project %s: %w", input.Slug, err)
		}
		if _, err := projectsSvc.Create(ctx, input); err != nil {
			return fmt.Errorf("seed project %s: %w", input.Slug, err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
	return nil
}

func samplePosts() []blog.PostInput {
	return []blog.PostInput{
		{
			Title:       "Hello, world",
			Slug:        "hello-world",
			Description: "First post on the new platform.",
			ContentMD:   "Welcome to the blog. Posts are written in **markdown** and rendered server-side.",
			Category:    "general",
			Tags:        []string{"meta"},
			Lang:        "en",
		},
		{
			Title:       "Shipping a Go service",
			Slug:        "shipping-a-go-service",
			Description: "Notes on structure, migrations, and graceful shutdown.",
			ContentMD:   "A few things that paid off:\n\n- one binary, three apps\n- migrations owned by the schema\n- a bounded queue for analytics",
			Category:    "engineering",
			Tags:        []string{"go", "ops"},
			Lang:        "en",
		},
	}
}

func sampleProjects() []projects.ProjectInput {
	return []projects.ProjectInput{
		{
			Title:       "Site platform",
			Slug:        "site-platform",
			Description: "The server rendering this page.",
			ContentMD:   "Portfolio, blog, and admin apps sharing one Postgres database.",
			Tech:        []string{"Go", "PostgreSQL", "htmx"},
			RepoURL:     "https://github.com/oornnery/site",
			Featured:    true,
		},
	}
}
