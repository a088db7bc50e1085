// Package jsonld builds schema.org documents embedded in rendered pages
// so posts, projects, and the owner profile stay machine-readable.
package jsonld

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/oornnery/site/internal/domain/blog"
	"github.com/oornnery/site/internal/domain/profiles"
	"github.com/oornnery/site/internal/domain/projects"
)

const schemaContext = "https://schema.org"

// BlogPosting maps a published post to a schema.org BlogPosting.
func BlogPosting(post *blog.Post, baseURL string) map[string]any {
	doc := map[string]any{
		"@context":      schemaContext,
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"datePublished": post.PublishedAt.Format("2006-01-02"),
		"dateModified":  post.UpdatedAt.Format("2006-01-02"),
		"inLanguage":    post.Lang,
	}
	if post.Description != "" {
		doc["description"] = post.Description
	}
	if post.Image != "" {
		doc["image"] = post.Image
	}
	if len(post.Tags) > 0 {
		doc["keywords"] = strings.Join(post.Tags, ", ")
	}
	if baseURL != "" {
		doc["url"] = joinURL(baseURL, "/blog/", post.Slug)
	}
	return doc
}

// SoftwareSourceCode maps a portfolio project to schema.org.
func SoftwareSourceCode(project *projects.Project, baseURL string) map[string]any {
	doc := map[string]any{
		"@context": schemaContext,
		"@type":    "SoftwareSourceCode",
		"name":     project.Title,
	}
	if project.Description != "" {
		doc["description"] = project.Description
	}
	if project.RepoURL != "" {
		doc["codeRepository"] = project.RepoURL
	}
	if len(project.Tech) > 0 {
		doc["programmingLanguage"] = strings.Join(project.Tech, ", ")
	}
	if baseURL != "" {
		doc["url"] = joinURL(baseURL, "/projects/", project.Slug)
	}
	return doc
}

// Person maps the owner profile to a schema.org Person.
func Person(profile *profiles.Profile, baseURL string) map[string]any {
	doc := map[string]any{
		"@context": schemaContext,
		"@type":    "Person",
		"name":     profile.Name,
	}
	if profile.Headline != "" {
		doc["jobTitle"] = profile.Headline
	}
	if profile.AvatarURL != "" {
		doc["image"] = profile.AvatarURL
	}
	if profile.Email != "" {
		doc["email"] = "mailto:" + profile.Email
	}
	if baseURL != "" {
		doc["url"] = baseURL
	}
	if len(profile.Socials) > 0 {
		sameAs := make([]string, 0, len(profile.Socials))
		for _, url := range profile.Socials {
			if url != "" {
				sameAs = append(sameAs, url)
			}
		}
		if len(sameAs) > 0 {
			sort.Strings(sameAs)
			doc["sameAs"] = sameAs
		}
	}
	return doc
}

// WebSite describes the site itself, used on app home pages.
func WebSite(title, description, baseURL string) map[string]any {
	doc := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     title,
	}
	if description != "" {
		doc["description"] = description
	}
	if baseURL != "" {
		doc["url"] = baseURL
	}
	return doc
}

// Marshal renders a document for a <script type="application/ld+json">
// block. Marshal failures yield an empty string, never a broken page.
func Marshal(doc map[string]any) string {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ""
	}
	return string(payload)
}

func joinURL(base, prefix, slug string) string {
	return strings.TrimRight(base, "/") + prefix + slug
}
