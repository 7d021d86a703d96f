package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	testhelpers "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cli := &CLI{stdout: &stdout, stderr: &stderr}
	parser, err := kong.New(cli,
		kong.Name("sitebuilder"),
		kong.Vars{"version": "test"},
		kong.Bind(cli),
		kong.Exit(func(int) { t.Fatalf("unexpected exit") }),
	)
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	kctx.BindTo(context.Background(), (*context.Context)(nil))
	err = kctx.Run(cli)
	return stdout.String(), stderr.String(), err
}

func TestBuild_IsDefaultCommand(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Title: "Hello", Slug: "hello", Body: "# Hi\n"})
	project.WriteFile("sitebuilder.yaml", "project_root: "+project.Root+"\n")

	stdout, stderr, err := run(t, "--config", filepath.Join(project.Root, "sitebuilder.yaml"))
	require.NoError(t, err)
	require.Contains(t, stdout, "documents=1")
	require.Contains(t, stdout, "outcome=success")
	require.Contains(t, stderr, "Build finished")
	project.Output().AssertFileContains("posts/hello/renderedOutput.txt", `<h1 id="hi">Hi</h1>`)
}

func TestBuild_FlagsOverrideConfig(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})

	_, _, err := run(t, "build",
		"--config", filepath.Join(project.Root, "missing.yaml"),
		"--root", project.Root,
		"--output", "public")
	require.NoError(t, err)
	testhelpers.NewFileAssertions(t, filepath.Join(project.Root, "public")).AssertFileExists("posts/hello/index.html")
}

func TestBuild_ExportsMetricsTextfile(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{Slug: "hello"})
	textfile := filepath.Join(t.TempDir(), "sitebuilder.prom")
	project.WriteFile("sitebuilder.yaml", "project_root: "+project.Root+"\nmetrics:\n  textfile: "+textfile+"\n")

	_, _, err := run(t, "-c", filepath.Join(project.Root, "sitebuilder.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	require.Contains(t, string(data), `sitebuilder_build_outcomes_total{outcome="success"} 1`)
	require.Contains(t, string(data), "sitebuilder_documents_rendered_total 1")
}

func TestBuild_FailureIsReturned(t *testing.T) {
	project := testhelpers.NewProject(t)
	project.WritePost(testhelpers.Post{File: "evil.mdx", Slug: "../../etc/evil"})

	_, _, err := run(t, "build", "--config", filepath.Join(project.Root, "missing.yaml"), "--root", project.Root)
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryPathSafety))
	require.Equal(t, 1, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInit_WritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	stdout, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "Wrote configuration to "+path)

	_, _, err = run(t, "init", "--config", path)
	require.Error(t, err)

	_, _, err = run(t, "init", "--config", path, "--force")
	require.NoError(t, err)
}
