package extract

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Languages maps fence language tags to file extensions. The table is
// read-only for the duration of a run.
type Languages map[string]string

// DefaultLanguages returns the built-in tag-to-extension table.
func DefaultLanguages() Languages {
	return Languages{
		"python":     "py",
		"javascript": "js",
		"typescript": "ts",
		"java":       "java",
		"cpp":        "cpp",
		"c":          "c",
		"html":       "html",
		"css":        "css",
		"json":       "json",
		"xml":        "xml",
		"yaml":       "yml",
		"yml":        "yml",
		"markdown":   "md",
		"bash":       "sh",
		"shell":      "sh",
		"sql":        "sql",
		"php":        "php",
		"ruby":       "rb",
		"go":         "go",
		"rust":       "rs",
	}
}

// Ext returns the extension mapped to a language tag.
func (l Languages) Ext(lang string) (string, bool) {
	ext, ok := l[lang]

	return ext, ok
}

// ExtOr returns the mapped extension, or fallback for an absent or unmapped
// tag.
func (l Languages) ExtOr(lang, fallback string) string {
	if ext, ok := l[lang]; ok {
		return ext
	}

	return fallback
}

// ParseOverrides parses shell-style "tag=ext" words and lays them over the
// default table, e.g. `kotlin=kt "objective c"=m`.
func ParseOverrides(input string) (Languages, error) {
	langs := DefaultLanguages()
	if strings.TrimSpace(input) == "" {
		return langs, nil
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, fmt.Errorf("parsing extension mappings: %w", err)
	}

	for _, word := range words {
		idx := strings.IndexRune(word, '=')
		if idx <= 0 || idx == len(word)-1 {
			return nil, fmt.Errorf("invalid extension mapping %q", word)
		}

		langs[strings.ToLower(word[:idx])] = strings.TrimPrefix(word[idx+1:], ".")
	}

	return langs, nil
}
