// Package siteindex aggregates parsed documents and static pages into the
// navigation manifest shared by every rendered page.
package siteindex

import (
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// PostPath is the URL path of the document with the given slug.
func PostPath(slug string) string { return "/posts/" + slug }

// PagePath is the URL path of a static page.
func PagePath(p site.StaticPage) string { return "/" + p.FileStem() }

// Build derives the manifest. Posts keep the order of docs and pages the
// order of the page registry; nothing is sorted or deduplicated.
func Build(docs []site.Document, pages []site.StaticPage) site.SiteData {
	data := site.SiteData{
		Posts: make([]site.PostEntry, 0, len(docs)),
		Pages: make([]site.PageEntry, 0, len(pages)),
	}
	for _, d := range docs {
		m := d.Metadata
		data.Posts = append(data.Posts, site.PostEntry{
			Title:       m.Title,
			CreatedAt:   m.CreatedAt,
			Slug:        m.Slug,
			Tags:        append([]string{}, m.Tags...),
			Description: m.Description,
			Path:        PostPath(m.Slug),
		})
	}
	for _, p := range pages {
		data.Pages = append(data.Pages, site.PageEntry{Title: p.Title, Path: PagePath(p)})
	}
	return data
}

// ValidateSlugs fails on the first slug shared by two documents.
func ValidateSlugs(docs []site.Document) error {
	seen := make(map[string]string, len(docs))
	for _, d := range docs {
		slug := d.Metadata.Slug
		if first, ok := seen[slug]; ok {
			return errors.DuplicateSlug(slug, first, d.SourcePath)
		}
		seen[slug] = d.SourcePath
	}
	return nil
}

// SortByCreatedAtDesc orders docs newest first; documents created at the same
// time keep their relative order.
func SortByCreatedAtDesc(docs []site.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Metadata.CreatedAt.After(docs[j].Metadata.CreatedAt.Time)
	})
}
