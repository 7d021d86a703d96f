package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	testhelpers "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

func newPipeline(t *testing.T, project *testhelpers.Project, deps Deps) *Pipeline {
	t.Helper()
	if deps.NewBuildID == nil {
		deps.NewBuildID = func() string { return "test-build" }
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	}
	p, err := New(project.Config(), deps)
	require.NoError(t, err)
	return p
}

func TestRun_HelloScenario(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Title: "Hello", Slug: "hello", Tags: []string{"a", "b"}, Body: "# Hi\n"})

	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, metrics.BuildOutcomeSuccess, report.Outcome)
	require.Equal(t, "test-build", report.BuildID)
	require.Equal(t, 1, report.Documents)
	require.Equal(t, 2, report.Pages)

	out := project.Output()
	require.Equal(t, []string{
		"about-hydrate.tsx",
		"about.html",
		"index-hydrate.tsx",
		"index.html",
		"posts/hello/compiledSource.txt",
		"posts/hello/hello-post-hydrate.tsx",
		"posts/hello/hello-post.tsx",
		"posts/hello/index.html",
		"posts/hello/renderedOutput.txt",
		"prism-duotone-light.css",
		"site-data.json",
	}, out.ListFiles())
	require.Equal(t, 11, report.FilesWritten)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.Read("posts/hello/index.html")))
	require.NoError(t, err)
	require.Equal(t, "Hello - kimmo.blog", doc.Find("title").Text())
	out.AssertFileContains("posts/hello/renderedOutput.txt", `<h1 id="hi">Hi</h1>`)

	var data site.SiteData
	require.NoError(t, json.Unmarshal([]byte(out.Read("site-data.json")), &data))
	require.Len(t, data.Posts, 1)
	require.Equal(t, "/posts/hello", data.Posts[0].Path)
	require.Equal(t, []site.PageEntry{{Title: "Home", Path: "/index"}, {Title: "About", Path: "/about"}}, data.Pages)
	require.True(t, strings.HasPrefix(out.Read("site-data.json"), "{\n  \"posts\": ["))

	index, err := goquery.NewDocumentFromReader(strings.NewReader(out.Read("index.html")))
	require.NoError(t, err)
	require.Equal(t, "/posts/hello", index.Find("li.post-entry a").AttrOr("href", ""))
}

func TestRun_ManifestKeepsDiscoveryOrder(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{File: "b.mdx", Slug: "second", CreatedAt: "2021-01-01"})
	project.WritePost(testhelpers.Post{File: "a.mdx", Slug: "first", CreatedAt: "2020-01-01"})
	project.WriteFile("posts/notes.txt", "ignored")
	project.WriteFile("posts/drafts/c.mdx", "ignored")

	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Documents)

	var data site.SiteData
	require.NoError(t, json.Unmarshal([]byte(project.Output().Read("site-data.json")), &data))
	require.Equal(t, "first", data.Posts[0].Slug)
	require.Equal(t, "second", data.Posts[1].Slug)
}

func TestRun_IsDeterministic(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello", Body: "# Hi\n\nSee <Link href=\"/about\">about</Link>.\n"})
	project.WritePost(testhelpers.Post{Slug: "world", Tags: []string{"x"}, Body: "<Callout>\n\nnote\n\n</Callout>\n"})

	p := newPipeline(t, project, Deps{})
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first := project.Output().Tree()

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, project.Output().Tree())
}

func TestRun_PathEscapeAbortsWithoutWriting(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})
	project.WritePost(testhelpers.Post{File: "evil.mdx", Slug: "../../etc/evil"})

	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryPathSafety))
	require.Equal(t, StageWrite, report.FailedStage)
	require.Equal(t, metrics.BuildOutcomeFailed, report.Outcome)
	require.Equal(t, 0, report.FilesWritten)

	require.Empty(t, project.Output().Tree())
	_, statErr := os.Stat(filepath.Join(project.Root, "etc"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_FailuresAbortBeforeWrite(t *testing.T) {
	cases := []struct {
		name     string
		setup    func(p *testhelpers.Project)
		stage    StageName
		category errors.ErrorCategory
	}{
		{
			name: "missing front matter",
			setup: func(p *testhelpers.Project) {
				p.WritePost(testhelpers.Post{Slug: "ok"})
				p.WriteFile("posts/bad.mdx", "# no metadata\n")
			},
			stage:    StageParse,
			category: errors.CategoryParse,
		},
		{
			name: "duplicate slug",
			setup: func(p *testhelpers.Project) {
				p.WritePost(testhelpers.Post{File: "a.mdx", Slug: "same"})
				p.WritePost(testhelpers.Post{File: "b.mdx", Slug: "same"})
			},
			stage:    StageIndex,
			category: errors.CategoryValidation,
		},
		{
			name: "unknown component",
			setup: func(p *testhelpers.Project) {
				p.WritePost(testhelpers.Post{Slug: "ok"})
				p.WritePost(testhelpers.Post{Slug: "chart", Body: "<Chart />\n"})
			},
			stage:    StageRenderDocuments,
			category: errors.CategoryCompile,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			project := testhelpers.NewProject(t)
			project.WriteFile("output/stale.html", "stale")
			tc.setup(project)

			report, err := newPipeline(t, project, Deps{}).Run(context.Background())
			require.Error(t, err)
			require.True(t, errors.IsCategory(err, tc.category), err.Error())
			require.Equal(t, tc.stage, report.FailedStage)
			require.NotContains(t, report.Stages, StageWrite)

			// The previous output is untouched.
			require.Equal(t, []string{"stale.html"}, project.Output().ListFiles())
		})
	}
}

func TestRun_MissingContentDirectory(t *testing.T) {
	project := testhelpers.NewProject(t)
	require.NoError(t, os.Remove(project.ContentDir()))

	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryFileSystem))
	require.Equal(t, StageDiscover, report.FailedStage)
}

func TestRun_SkipsHiddenFiles(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})
	project.WritePost(testhelpers.Post{File: ".draft.mdx", Slug: "draft"})
	project.WritePost(testhelpers.Post{File: ".mdx", Slug: "bare"})

	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Documents)
	project.Output().
		AssertFileExists("posts/hello/index.html").
		AssertFileNotExists("posts/draft/index.html").
		AssertFileNotExists("posts/bare/index.html")
}

func TestRun_EmptyContentDirectory(t *testing.T) {
	project := testhelpers.NewProject(t)
	report, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Documents)
	require.JSONEq(t, `{"posts":[],"pages":[{"title":"Home","path":"/index"},{"title":"About","path":"/about"}]}`,
		project.Output().Read("site-data.json"))
}

func TestRun_Canceled(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := newPipeline(t, project, Deps{}).Run(ctx)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryCanceled))
	require.Equal(t, metrics.BuildOutcomeCanceled, report.Outcome)
	require.Equal(t, StageDiscover, report.FailedStage)
	require.Empty(t, project.Output().Tree())
}

func TestRun_CleanRemovesStaleOutput(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WriteFile("output/posts/old/index.html", "old")
	project.WritePost(testhelpers.Post{Slug: "hello"})

	_, err := newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	project.Output().
		AssertFileNotExists("posts/old/index.html").
		AssertFileExists("posts/hello/index.html")

	project.Config().Output.Clean = false
	project.WriteFile("output/keep.txt", "keep")
	_, err = newPipeline(t, project, Deps{}).Run(context.Background())
	require.NoError(t, err)
	project.Output().AssertFileExists("keep.txt")
}

func TestRun_RecordsMetricsAndLogs(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})

	var logs bytes.Buffer
	rec := &countingRecorder{stages: map[StageName]metrics.ResultLabel{}}
	p := newPipeline(t, project, Deps{
		Recorder: rec,
		Logger:   slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []StageName{
		StageDiscover, StageParse, StageIndex, StageRenderPages,
		StageRenderDocuments, StageManifest, StageAssets, StageWrite,
	}, report.Stages)
	require.Len(t, rec.stages, 8)
	require.Equal(t, metrics.ResultSuccess, rec.stages[StageWrite])
	require.Equal(t, 1, rec.documents)
	require.Equal(t, report.FilesWritten, rec.files)
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)

	require.Contains(t, logs.String(), "build_id=test-build")
	require.Contains(t, logs.String(), "slug=hello")
	require.Contains(t, logs.String(), "outcome=success")
	require.Contains(t, report.Summary(), "documents=1")
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.Config().Output.Directory = "../outside"
	_, err := New(project.Config(), Deps{})
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestNew_RejectsOutputContainingContent(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.Config().Content.Directory = "site/posts"
	project.Config().Output.Directory = "site"
	source := project.WritePost(testhelpers.Post{Slug: "hello"})

	_, err := New(project.Config(), Deps{})
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))
	require.FileExists(t, source)
}
