package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(cfg Config) (*Driver, *memoryfs.FS) {
	fsys := memoryfs.New()

	d := NewDriver(cfg)
	d.FS = fsys

	return d, fsys
}

func TestLabeledBlock(t *testing.T) {
	doc := "**src/app.py**\n```python\nprint(\"hi\")\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	data, err := fsys.ReadFile("out/src/app.py")
	require.NoError(t, err)
	assert.Equal(t, "print(\"hi\")\n", string(data))

	st := d.Stats()
	assert.Equal(t, 1, st.CodeBlocks)
	assert.Equal(t, 1, st.FilesCreated)
	assert.Equal(t, 0, st.Errors)
}

func TestUnlabeledBlockSynthesizesName(t *testing.T) {
	doc := "```go\npackage main\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	data, err := fsys.ReadFile("out/code_block_1.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestDanglingBlockRecovered(t *testing.T) {
	doc := "```go\npackage main\n\nfunc main() {}\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	data, err := fsys.ReadFile("out/code_block_1.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}\n", string(data))

	st := d.Stats()
	assert.Equal(t, 1, st.CodeBlocks)
	assert.Equal(t, 1, st.Warnings)
	assert.Equal(t, 0, st.Errors)
}

func TestDryRunCountsWithoutWriting(t *testing.T) {
	doc := "# Title\n\n**a.py**\n```python\nx = 1\n```\n\n```go\npackage main\n```\n"

	wet, wetFS := newTestDriver(Config{OutputRoot: "out"})
	wet.Process("doc.md", strings.NewReader(doc))

	dry, dryFS := newTestDriver(Config{OutputRoot: "out", DryRun: true})
	dry.Process("doc.md", strings.NewReader(doc))

	assert.Equal(t, wet.Stats().CodeBlocks, dry.Stats().CodeBlocks)
	assert.Equal(t, wet.Stats().Headlines, dry.Stats().Headlines)
	assert.Equal(t, wet.Stats().Errors, dry.Stats().Errors)
	assert.Equal(t, 0, dry.Stats().FilesCreated)

	_, err := wetFS.ReadFile("title/a.py")
	assert.NoError(t, err)
	_, err = dryFS.Stat("title")
	assert.Error(t, err)
}

func TestIdempotentWithoutOverwrite(t *testing.T) {
	doc := "**a.py**\n```python\nx = 1\n```\n\n```go\npackage main\n```\n"

	first, fsys := newTestDriver(Config{OutputRoot: "out"})
	first.Process("doc.md", strings.NewReader(doc))
	require.Equal(t, 2, first.Stats().FilesCreated)

	second := NewDriver(Config{OutputRoot: "out"})
	second.FS = fsys
	second.Process("doc.md", strings.NewReader(doc))

	st := second.Stats()
	assert.Equal(t, 0, st.FilesCreated)
	assert.Equal(t, 2, st.Skipped)
	assert.Equal(t, 0, st.Errors)
}

func TestReopenFlushesPreviousBlock(t *testing.T) {
	doc := "```python\nprint(1)\n```go\npackage main\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	data, err := fsys.ReadFile("out/code_block_1.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(data))

	data, err = fsys.ReadFile("out/code_block_2.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))

	st := d.Stats()
	assert.Equal(t, 2, st.CodeBlocks)
	assert.Equal(t, 1, st.Warnings)
}

func TestMonotonicNamingAcrossDocuments(t *testing.T) {
	d, fsys := newTestDriver(Config{OutputRoot: "out"})

	d.Process("a.md", strings.NewReader("```python\nx = 1\n```\n"))
	d.Process("b.md", strings.NewReader("```\nplain text\n```\n"))

	_, err := fsys.ReadFile("out/code_block_1.py")
	assert.NoError(t, err)
	_, err = fsys.ReadFile("out/code_block_2.txt")
	assert.NoError(t, err)

	st := d.Stats()
	assert.Equal(t, 2, st.Documents)
	assert.Equal(t, 2, st.CodeBlocks)
}

func TestEmptyBlockCountsAsSeen(t *testing.T) {
	doc := "```python\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	st := d.Stats()
	assert.Equal(t, 1, st.CodeBlocks)
	assert.Equal(t, 0, st.FilesCreated)

	_, err := fsys.Stat("out")
	assert.Error(t, err)
}

func TestLabelConsumedByOneFlush(t *testing.T) {
	doc := "**a.py**\n```python\nx\n```\n\n```python\ny\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	_, err := fsys.ReadFile("out/a.py")
	assert.NoError(t, err)

	// The label never leaks into the second, unlabeled block.
	_, err = fsys.ReadFile("out/code_block_2.py")
	assert.NoError(t, err)
}

func TestHeadingRebasesOutputRoot(t *testing.T) {
	doc := "# My Project!\n\n```python\nx = 1\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	_, err := fsys.ReadFile("my_project_/code_block_1.py")
	assert.NoError(t, err)
	assert.Equal(t, 1, d.Stats().Headlines)
}

func TestHeadingDoesNotRebaseWithPendingLabel(t *testing.T) {
	doc := "**a.py**\n# Title\n```python\nx = 1\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	_, err := fsys.ReadFile("out/a.py")
	assert.NoError(t, err)
}

func TestFrontmatterExcludedFromExtraction(t *testing.T) {
	doc := "---\ntitle: x\n```python\nnot code\n```\n---\n## Heading\n\n```go\npackage main\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	// The fence inside frontmatter is metadata; only the go block counts.
	data, err := fsys.ReadFile("out/code_block_1.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))

	st := d.Stats()
	assert.Equal(t, 1, st.CodeBlocks)
	assert.Equal(t, 1, st.Headlines)
}

func TestFrontmatterOnlyEnteredOnFirstLine(t *testing.T) {
	doc := "some text\n---\n# Heading\n"

	d, _ := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	// The delimiter mid-document is ignored, so the heading still counts.
	assert.Equal(t, 1, d.Stats().Headlines)
}

func TestWriteFailureIsContained(t *testing.T) {
	d := NewDriver(Config{OutputRoot: "out"})
	d.FS = failFS{err: errors.New("disk full")}

	doc := "```python\nx\n```\n\n```go\npackage main\n```\n"
	d.Process("doc.md", strings.NewReader(doc))

	st := d.Stats()
	assert.Equal(t, 2, st.CodeBlocks)
	assert.Equal(t, 2, st.Errors)
	assert.Equal(t, 0, st.FilesCreated)
	assert.Equal(t, 1, st.Documents)
}

func TestMissingFileSkipped(t *testing.T) {
	var messages []string

	d, _ := newTestDriver(Config{OutputRoot: "out"})
	d.Status = func(format string, args ...any) {
		messages = append(messages, format)
	}

	d.ProcessFile("does/not/exist.md")

	st := d.Stats()
	assert.Equal(t, 0, st.Documents)
	assert.Equal(t, 0, st.Errors)
	assert.NotEmpty(t, messages)
}

func TestOnWriteHookFailureCounted(t *testing.T) {
	d, _ := newTestDriver(Config{OutputRoot: "out"})

	var hookPath, hookLang string

	d.OnWrite = func(path, lang string) error {
		hookPath, hookLang = path, lang

		return errors.New("formatter failed")
	}

	d.Process("doc.md", strings.NewReader("```python\nx = 1\n```\n"))

	assert.Equal(t, "out/code_block_1.py", hookPath)
	assert.Equal(t, "python", hookLang)

	st := d.Stats()
	assert.Equal(t, 1, st.FilesCreated)
	assert.Equal(t, 1, st.Errors)
}

func TestRoundTripFidelity(t *testing.T) {
	content := []string{"line one", "", "  indented", "\tlast"}
	doc := "```text\n" + strings.Join(content, "\n") + "\n```\n"

	d, fsys := newTestDriver(Config{OutputRoot: "out"})
	d.Process("doc.md", strings.NewReader(doc))

	data, err := fsys.ReadFile("out/code_block_1.txt")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(content, "\n")+"\n", string(data))
}
