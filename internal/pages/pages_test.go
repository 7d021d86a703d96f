package pages

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/components"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

func render(t *testing.T, name string, data *site.SiteData) *goquery.Document {
	t.Helper()
	pages, err := Registry(components.Default())
	require.NoError(t, err)
	for _, p := range pages {
		if p.Name != name {
			continue
		}
		out, err := p.Component.Render(data)
		require.NoError(t, err)
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
		require.NoError(t, err)
		return doc
	}
	t.Fatalf("page %s not registered", name)
	return nil
}

func TestRegistry_Order(t *testing.T) {
	pages, err := Registry(components.Default())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, "index", pages[0].FileStem())
	require.Equal(t, "about", pages[1].FileStem())
}

func TestRegistry_RequiresLink(t *testing.T) {
	_, err := Registry(components.Markdown())
	require.Error(t, err)
}

func TestIndex_ListsPostsWithLinks(t *testing.T) {
	data := &site.SiteData{
		Posts: []site.PostEntry{{
			Title:       "Hello <World>",
			Slug:        "hello",
			Description: "First",
			CreatedAt:   site.NewDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			Path:        "/posts/hello",
		}},
		Pages: []site.PageEntry{{Title: "About", Path: "/about"}},
	}
	doc := render(t, "Index", data)

	a := doc.Find("li.post-entry a")
	require.Equal(t, 1, a.Length())
	href, _ := a.Attr("href")
	require.Equal(t, "/posts/hello", href)
	require.Equal(t, "Hello <World>", a.Text())
	require.Equal(t, "2020-01-01", doc.Find("li.post-entry time").Text())
	require.Equal(t, "/about", doc.Find("nav.pages a").AttrOr("href", ""))
}

func TestIndex_Empty(t *testing.T) {
	doc := render(t, "Index", &site.SiteData{})
	require.Equal(t, "Nothing published yet.", doc.Find("p.empty").Text())
}

func TestAbout_CountsPosts(t *testing.T) {
	doc := render(t, "About", &site.SiteData{Posts: make([]site.PostEntry, 3)})
	require.Contains(t, doc.Find("main.about").Text(), "3 posts so far.")
}
