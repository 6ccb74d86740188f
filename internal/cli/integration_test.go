package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmark/internal/cli"
	"github.com/yaklabco/gomdmark/pkg/fsutil"
)

const testMarkdown = "Some **bold** text here.\n"

// runResult is the outcome of one command invocation.
type runResult struct {
	stdout string
	stderr string
	err    error
}

// writeFixture writes a Markdown file and an isolating config file to a
// fresh directory and returns the Markdown path and the config path.
func writeFixture(t *testing.T, content, cfg string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	mdFile := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(mdFile, []byte(content), 0644))

	cfgFile := filepath.Join(dir, "gomdmark.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0644))

	return mdFile, cfgFile
}

func execute(t *testing.T, args ...string) runResult {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_Highlight(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile, "--text", "bold text")
	require.NoError(t, res.err)

	assert.Equal(t, "Some ==**bold** text== here.\n", readFile(t, mdFile))
	assert.Contains(t, res.stdout, "Highlighted")
	assert.Contains(t, res.stdout, "1:6-1:18")
	assert.False(t, fsutil.BackupExists(mdFile, fsutil.BackupModeSidecar))
}

func TestIntegration_HighlightDryRunDiff(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile,
		"--text", "bold text", "--dry-run", "--format", "diff")
	require.NoError(t, res.err)

	assert.Equal(t, testMarkdown, readFile(t, mdFile), "dry run must not write")
	assert.Contains(t, res.stdout, "-Some **bold** text here.")
	assert.Contains(t, res.stdout, "+Some ==**bold** text== here.")
}

func TestIntegration_HighlightJSON(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile,
		"--text", "bold text", "--format", "json", "--dry-run")
	require.NoError(t, res.err)

	var output struct {
		Action  string `json:"action"`
		Changed bool   `json:"changed"`
		Written bool   `json:"written"`
		Range   struct {
			StartOffset int    `json:"startOffset"`
			EndOffset   int    `json:"endOffset"`
			SourcePos   string `json:"sourcepos"`
		} `json:"range"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))

	assert.Equal(t, "highlight", output.Action)
	assert.True(t, output.Changed)
	assert.False(t, output.Written)
	assert.Equal(t, 5, output.Range.StartOffset)
	assert.Equal(t, 18, output.Range.EndOffset)
	assert.Equal(t, "1:6-1:18", output.Range.SourcePos)
}

func TestIntegration_HighlightSourcePos(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "first foo\n\nsecond foo\n", "flavor: commonmark\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile, "--text", "foo", "--sourcepos", "3:1-3:10")
	require.NoError(t, res.err)

	assert.Equal(t, "first foo\n\nsecond ==foo==\n", readFile(t, mdFile))
}

func TestIntegration_HighlightNotices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		text    string
		extra   []string
		notice  string
	}{
		{
			name:    "ambiguous text",
			content: "foo bar. foo bar.\n",
			text:    "foo bar",
			extra:   []string{"--no-hints"},
			notice:  "selection not found in source",
		},
		{
			name:    "inside code block",
			content: "Intro\n\n```go\nfmt.Println(1)\n```\n",
			text:    "fmt.Println(1)",
			notice:  "cannot highlight inside a code block or frontmatter",
		},
		{
			name:    "whitespace selection",
			content: testMarkdown,
			text:    "   ",
			notice:  "no text selected",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mdFile, cfgFile := writeFixture(t, testCase.content, "flavor: commonmark\n")

			args := append([]string{"highlight", mdFile, "--config", cfgFile, "--text", testCase.text}, testCase.extra...)
			res := execute(t, args...)

			require.Error(t, res.err)
			assert.ErrorIs(t, res.err, cli.ErrNoticeShown)
			assert.Equal(t, cli.ExitNotice, cli.ExitCodeFromError(res.err))
			assert.Contains(t, res.stderr, "gomdmark: warning: "+testCase.notice)
			assert.Equal(t, testCase.content, readFile(t, mdFile), "refused operation must not write")
		})
	}
}

func TestIntegration_HighlightUsageErrors(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing text", args: []string{"highlight", mdFile}},
		{name: "missing file", args: []string{"highlight", "--text", "bold"}},
		{name: "bad sourcepos", args: []string{"highlight", mdFile, "--text", "bold", "--sourcepos", "1:1"}},
		{name: "bad format", args: []string{"highlight", mdFile, "--text", "bold", "--format", "sarif"}},
		{name: "bad flavor", args: []string{"highlight", mdFile, "--text", "bold", "--flavor", "mdx"}},
		{name: "unknown flag", args: []string{"highlight", mdFile, "--bogus"}},
		{name: "text and mark", args: []string{"unhighlight", mdFile, "--text", "x", "--mark", "0"}},
		{name: "neither text nor mark", args: []string{"unhighlight", mdFile}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, append(testCase.args, "--config", cfgFile)...)
			require.Error(t, res.err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(res.err), res.err.Error())
		})
	}
}

func TestIntegration_MissingFile(t *testing.T) {
	t.Parallel()

	_, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	res := execute(t, "highlight", filepath.Join(t.TempDir(), "absent.md"), "--config", cfgFile, "--text", "x")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromError(res.err))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: mdx\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile, "--text", "bold text")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(res.err))
	assert.Equal(t, testMarkdown, readFile(t, mdFile))
}

func TestIntegration_Unhighlight(t *testing.T) {
	t.Parallel()

	const content = "a ==first== b ==second== c\n"

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "by text", args: []string{"--text", "second"}, want: "a ==first== b second c\n"},
		{name: "by mark", args: []string{"--mark", "0"}, want: "a first b ==second== c\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mdFile, cfgFile := writeFixture(t, content, "flavor: commonmark\n")

			args := append([]string{"unhighlight", mdFile, "--config", cfgFile}, testCase.args...)
			res := execute(t, args...)
			require.NoError(t, res.err)

			assert.Equal(t, testCase.want, readFile(t, mdFile))
			assert.Contains(t, res.stdout, "Unhighlighted")
		})
	}
}

func TestIntegration_UnhighlightMissingMark(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "a ==first== b\n", "flavor: commonmark\n")

	res := execute(t, "unhighlight", mdFile, "--config", cfgFile, "--mark", "3")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitNotice, cli.ExitCodeFromError(res.err))
	assert.Contains(t, res.stderr, "no highlight selected for removal")
}

func TestIntegration_BackupAndRestore(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "backups:\n  enabled: true\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile, "--text", "bold text")
	require.NoError(t, res.err)
	require.True(t, fsutil.BackupExists(mdFile, fsutil.BackupModeSidecar))
	assert.Equal(t, testMarkdown, readFile(t, mdFile+fsutil.BackupSuffix))

	res = execute(t, "restore", mdFile, "--config", cfgFile)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Restored")
	assert.Equal(t, testMarkdown, readFile(t, mdFile))
	assert.False(t, fsutil.BackupExists(mdFile, fsutil.BackupModeSidecar))

	res = execute(t, "restore", mdFile, "--config", cfgFile)
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, cli.ErrNoBackup)
	assert.Equal(t, cli.ExitNotice, cli.ExitCodeFromError(res.err))
}

func TestIntegration_NoBackupsFlag(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "backups:\n  enabled: true\n")

	res := execute(t, "highlight", mdFile, "--config", cfgFile, "--text", "bold text", "--no-backups")
	require.NoError(t, res.err)
	assert.False(t, fsutil.BackupExists(mdFile, fsutil.BackupModeSidecar))
}

func TestIntegration_Render(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "Some ==marked== [[Page|alias]]\n", "flavor: commonmark\n")

	res := execute(t, "render", mdFile, "--config", cfgFile, "--html")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Some marked alias")
	assert.Contains(t, res.stdout, "<mark>marked</mark>")
}

func TestIntegration_RenderMapJSON(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "a `b`", "flavor: commonmark\n")

	res := execute(t, "render", mdFile, "--config", cfgFile, "--map", "--format", "json")
	require.NoError(t, res.err)

	var output struct {
		Text string `json:"text"`
		Map  []struct {
			RenderedPos int  `json:"renderedPos"`
			SourceStart int  `json:"sourceStart"`
			Code        bool `json:"code"`
		} `json:"map"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))

	require.NotEmpty(t, output.Map)
	last := output.Map[len(output.Map)-1]
	assert.True(t, last.Code)
	assert.Equal(t, 3, last.SourceStart)
}

func TestIntegration_Marks(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "a ==first== b ==second== c\n", "flavor: commonmark\n")

	res := execute(t, "marks", mdFile, "--config", cfgFile, "--format", "json")
	require.NoError(t, res.err)

	var output struct {
		Marks []struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		} `json:"marks"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))

	require.Len(t, output.Marks, 2)
	assert.Equal(t, "first", output.Marks[0].Text)
	assert.Equal(t, 1, output.Marks[1].Index)
	assert.Equal(t, "second", output.Marks[1].Text)
}

func TestIntegration_MarksDirectory(t *testing.T) {
	t.Parallel()

	_, cfgFile := writeFixture(t, "", "flavor: commonmark\n")
	dir := t.TempDir()
	files := map[string]string{
		"a.md":          "==alpha==\n",
		"sub/b.md":      "no marks\n",
		"archive/c.md":  "==old==\n",
		"sub/notes.txt": "==ignored==\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	res := execute(t, "marks", dir, "--config", cfgFile, "--format", "json",
		"--ignore", "**/archive/**", "--jobs", "2")
	require.NoError(t, res.err)

	type listing struct {
		Path  string `json:"path"`
		Marks []struct {
			Text string `json:"text"`
		} `json:"marks"`
	}
	var listings []listing
	decoder := json.NewDecoder(strings.NewReader(res.stdout))
	for decoder.More() {
		var entry listing
		require.NoError(t, decoder.Decode(&entry))
		listings = append(listings, entry)
	}

	require.Len(t, listings, 2)
	assert.Equal(t, "a.md", filepath.Base(listings[0].Path))
	require.Len(t, listings[0].Marks, 1)
	assert.Equal(t, "alpha", listings[0].Marks[0].Text)
	assert.Equal(t, "b.md", filepath.Base(listings[1].Path))
	assert.Empty(t, listings[1].Marks)
}

func TestIntegration_MarksInvalidIgnore(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, testMarkdown, "flavor: commonmark\n")

	res := execute(t, "marks", filepath.Dir(mdFile), "--config", cfgFile, "--ignore", "[unclosed")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(res.err))
}

func TestIntegration_Protected(t *testing.T) {
	t.Parallel()

	content := "---\ntitle: x\n---\n\n```go\nfunc main() {}\n```\n"
	mdFile, cfgFile := writeFixture(t, content, "flavor: commonmark\n")

	res := execute(t, "protected", mdFile, "--config", cfgFile)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "frontmatter")
	assert.Contains(t, res.stdout, "fence")
	assert.Contains(t, res.stdout, "go")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "custom.yml")

	res := execute(t, "init", "--output", output)
	require.NoError(t, res.err)

	content := readFile(t, output)
	assert.Contains(t, content, "flavor")

	// Without a terminal an existing file is not overwritten.
	res = execute(t, "init", "--output", output)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(res.err))

	res = execute(t, "init", "--output", output, "--force", "--full")
	require.NoError(t, res.err)
}
