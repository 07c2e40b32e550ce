package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLabelVerbatim(t *testing.T) {
	res := &Resolver{Root: "out", Langs: DefaultLanguages()}

	assert.Equal(t, "out/src/app.py", res.Resolve("src/app.py", "python", 1))
}

func TestResolveSynthesizedName(t *testing.T) {
	res := &Resolver{Root: "out", Langs: DefaultLanguages()}

	assert.Equal(t, "out/code_block_1.go", res.Resolve("", "go", 1))
	assert.Equal(t, "out/code_block_7.txt", res.Resolve("", "", 7))
	assert.Equal(t, "out/code_block_2.txt", res.Resolve("", "kotlin", 2))
}

func TestResolveAppendsExtension(t *testing.T) {
	res := &Resolver{Root: "out", Langs: DefaultLanguages()}

	// Label without an extension gains the mapped one.
	assert.Equal(t, "out/script.py", res.Resolve("script", "python", 1))

	// A label that already has an extension keeps it.
	assert.Equal(t, "out/run.sh", res.Resolve("run.sh", "python", 1))

	// Unmapped language leaves the label alone.
	assert.Equal(t, "out/notes", res.Resolve("notes", "kotlin", 1))
}

func TestRebaseRoot(t *testing.T) {
	assert.Equal(t, "my_project_", rebaseRoot("extracted_files", "My Project!"))
	assert.Equal(t, "v1.2-beta", rebaseRoot("extracted_files", "v1.2-beta"))

	// Only the last element is replaced.
	assert.Equal(t, "base/docs", rebaseRoot("base/out", "Docs"))

	// Successive headings keep replacing the same element.
	root := rebaseRoot("out", "First")
	root = rebaseRoot(root, "Second")
	assert.Equal(t, "second", root)
}

func TestParseOverrides(t *testing.T) {
	langs, err := ParseOverrides(`kotlin=kt vue=.vue`)
	assert.NoError(t, err)
	assert.Equal(t, "kt", langs.ExtOr("kotlin", "txt"))
	assert.Equal(t, "vue", langs.ExtOr("vue", "txt"))

	// Defaults survive underneath the overrides.
	assert.Equal(t, "py", langs.ExtOr("python", "txt"))

	_, err = ParseOverrides("nope")
	assert.Error(t, err)

	_, err = ParseOverrides("lang=")
	assert.Error(t, err)

	langs, err = ParseOverrides("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultLanguages(), langs)
}
