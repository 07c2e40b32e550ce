package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Resolver computes concrete output paths for flushed code blocks.
type Resolver struct {
	// Root is the directory every resolved path is joined under. A level-1
	// heading can rebase it mid-run; see rebaseRoot.
	Root string

	// Langs maps fence language tags to file extensions.
	Langs Languages
}

// Resolve turns an optional path label and a language tag into an output
// path. Labels are used verbatim, relative to Root; unlabeled blocks get a
// synthesized name keyed by num, the 1-based running block count for the
// whole run. A label without an extension gains the language's mapped one.
//
// Paths are not sanitized against traversal outside Root; that is the
// caller's responsibility.
func (r *Resolver) Resolve(label, lang string, num int) string {
	rel := label
	if rel == "" {
		rel = fmt.Sprintf("code_block_%d.%s", num, r.Langs.ExtOr(lang, "txt"))
	}

	if filepath.Ext(rel) == "" {
		if ext, ok := r.Langs.Ext(lang); ok {
			rel += "." + ext
		}
	}

	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

var reSlugStrip = regexp.MustCompile(`[^\w\-.]`)

// rebaseRoot replaces the last element of the output root with a slug of a
// level-1 heading: case-folded, non-word characters replaced with
// underscores. Successive headings keep replacing the same element.
func rebaseRoot(current, heading string) string {
	slug := reSlugStrip.ReplaceAllString(strings.ToLower(heading), "_")

	return filepath.Join(filepath.Dir(current), slug)
}
