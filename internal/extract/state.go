package extract

import (
	"bytes"
	"strings"
)

// State is the parsing mode of the line machine. The zero value is
// StateNormal.
type State int

const (
	StateNormal State = iota
	StateFrontmatter
	StateCodeBlock
)

type lineRule int

const (
	ruleNone lineRule = iota
	rulePathLabel
	ruleFenceOpen
	ruleFenceClose
	ruleFrontmatter
	ruleContent
	ruleHeading
	ruleTableRow
)

const (
	fence      = "```"
	boldMarker = "**"
)

// event is the classifier verdict for one input line.
type event struct {
	rule  lineRule
	label string // rulePathLabel
	lang  string // ruleFenceOpen
	level int    // ruleHeading
	text  string // ruleHeading
}

// classify maps one raw line to the first matching rule. Rules are tried in
// fixed priority order and the first match wins; the caller applies the
// resulting transition. classify itself never mutates anything.
func classify(state State, line string, num int) event {
	if state != StateCodeBlock {
		if label := pathLabel(line); label != "" {
			return event{rule: rulePathLabel, label: label}
		}
	}

	if state != StateFrontmatter {
		if strings.HasPrefix(line, fence) && len(line) > len(fence) {
			return event{rule: ruleFenceOpen, lang: fenceLang(line)}
		}

		if strings.TrimSpace(line) == fence {
			return event{rule: ruleFenceClose}
		}
	}

	if strings.TrimSpace(line) == "---" {
		// Entry only on the very first line; exit on any later delimiter.
		if state == StateFrontmatter || (state == StateNormal && num == 1) {
			return event{rule: ruleFrontmatter}
		}
	}

	if state == StateCodeBlock {
		if !strings.HasPrefix(line, "`") {
			return event{rule: ruleContent}
		}

		return event{}
	}

	if state == StateNormal {
		if level, text, ok := headingLine(line); ok {
			return event{rule: ruleHeading, level: level, text: text}
		}

		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			return event{rule: ruleTableRow}
		}
	}

	return event{}
}

// pathLabel extracts a file path from a bold-marked line such as
// "**src/app.py**". Only lines starting with the marker qualify; the text up
// to the last marker occurrence, with all asterisks stripped, is the label.
// Labels spanning multiple lines are unsupported.
func pathLabel(line string) string {
	if !strings.HasPrefix(line, boldMarker) {
		return ""
	}

	idx := strings.LastIndex(line, boldMarker)

	return strings.ReplaceAll(line[:idx], "*", "")
}

// fenceLang returns the lowercased run of word characters following the
// opening fence marker. "```python extra" yields "python", "``` " yields "".
func fenceLang(line string) string {
	rest := line[len(fence):]

	end := 0
	for end < len(rest) && isWordByte(rest[end]) {
		end++
	}

	return strings.ToLower(rest[:end])
}

func headingLine(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}

	if level == 0 || level == len(line) {
		return 0, "", false
	}

	rest := strings.TrimLeft(line[level:], " \t")
	if len(rest) == len(line)-level || len(rest) == 0 {
		return 0, "", false
	}

	return level, rest, true
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// pending is the in-progress code block accumulated between fences.
type pending struct {
	lang      string
	startLine int
	lines     []string
}

// Machine consumes one document's lines in order and flushes finished code
// blocks through the resolver and materializer. At most one block is pending
// at a time; opening a fence while one is active flushes the previous block
// first so no content is silently dropped.
type Machine struct {
	state   State
	block   *pending
	label   string
	doc     string
	res     *Resolver
	mat     *Materializer
	stats   *Stats
	status  StatusFunc
	onWrite func(path, lang string) error
}

func newMachine(res *Resolver, mat *Materializer, stats *Stats, status StatusFunc) *Machine {
	return &Machine{res: res, mat: mat, stats: stats, status: status}
}

// Feed classifies a single line and applies the resulting transition.
// Failures during a flush are contained; Feed never returns an error.
func (m *Machine) Feed(line string, num int) {
	ev := classify(m.state, line, num)

	switch ev.rule {
	case rulePathLabel:
		m.label = ev.label
	case ruleFenceOpen:
		if m.block != nil {
			m.warn("line %d of %s: new code block opened while previous one is active\n", num, m.doc)
			m.flush()
		}

		m.state = StateCodeBlock
		m.block = &pending{lang: ev.lang, startLine: num}
	case ruleFenceClose:
		if m.block != nil {
			m.flush()
		}

		m.state = StateNormal
	case ruleFrontmatter:
		if m.state == StateFrontmatter {
			m.state = StateNormal
		} else {
			m.state = StateFrontmatter
		}
	case ruleContent:
		m.block.lines = append(m.block.lines, line)
	case ruleHeading:
		m.stats.Headlines++

		if ev.level == 1 && m.label == "" {
			m.res.Root = rebaseRoot(m.res.Root, ev.text)
			m.status("using heading as output directory: %s\n", m.res.Root)
		}
	case ruleTableRow, ruleNone:
	}
}

// Finish recovers a dangling block left open at end of input. It is
// equivalent to an explicit closing fence plus a warning.
func (m *Machine) Finish() {
	if m.block != nil {
		m.warn("unclosed code block opened at line %d of %s\n", m.block.startLine, m.doc)
		m.flush()
	}

	m.state = StateNormal
}

// flush finalizes the pending block: the captured label is consumed here
// exactly once, whether or not anything gets written.
func (m *Machine) flush() {
	blk := m.block
	m.block = nil

	label := m.label
	m.label = ""

	num := m.stats.CodeBlocks + 1
	m.stats.CodeBlocks++

	if len(blk.lines) == 0 {
		return
	}

	path := m.res.Resolve(label, blk.lang, num)

	var buf bytes.Buffer
	for _, line := range blk.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	outcome, err := m.mat.Materialize(path, buf.Bytes())

	switch outcome {
	case Written:
		m.stats.FilesCreated++
		m.status("created %s (%d lines)\n", path, len(blk.lines))

		if m.onWrite != nil {
			if hookErr := m.onWrite(path, blk.lang); hookErr != nil {
				m.stats.Errors++
				m.status("error: post-command for %s: %v\n", path, hookErr)
			}
		}
	case SkippedExisting:
		m.stats.Skipped++
		m.warn("file exists, skipping %s (use --overwrite to replace)\n", path)
	case DryRun:
		m.status("dry-run: would create %s (%d bytes)\n", path, buf.Len())
	case Failed:
		m.stats.Errors++
		m.status("error: %v\n", err)
	}
}

func (m *Machine) warn(format string, args ...any) {
	m.stats.Warnings++
	m.status("warning: "+format, args...)
}
