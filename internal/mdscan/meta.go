package mdscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
	"github.com/yuin/goldmark/ast"
)

// Meta holds key=value pairs from a code fence info string, e.g.
//
//	```go file=main.go
type Meta map[string]string

// Get returns the value for name, or "" when absent.
func (m Meta) Get(name string) string {
	return m[name]
}

var reInfo = regexp.MustCompile(`\s*(\w+)\s*(.*)`)

func blockInfo(fcb *ast.FencedCodeBlock, source []byte) (string, Meta, error) {
	if fcb.Info == nil {
		return "", nil, nil
	}

	sub := reInfo.FindSubmatch(fcb.Info.Text(source))
	if sub == nil {
		return "", nil, nil
	}

	meta, err := parseMeta(string(sub[2]))

	return string(sub[1]), meta, err
}

func parseMeta(input string) (Meta, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, fmt.Errorf("parsing fence info: %w", err)
	}

	meta := make(Meta)

	for _, word := range words {
		if idx := strings.IndexRune(word, '='); idx > 0 {
			meta[word[:idx]] = word[idx+1:]
		}
	}

	return meta, nil
}
