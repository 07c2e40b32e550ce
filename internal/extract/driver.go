// Package extract implements the line-driven engine that unpacks fenced
// code blocks embedded in markdown documents into files on disk.
package extract

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// StatusFunc receives progress and warning messages from a run.
type StatusFunc func(format string, args ...any)

// Config controls one extraction run. All values are explicit; nothing is
// read from the environment.
type Config struct {
	OutputRoot string
	Overwrite  bool
	DryRun     bool
}

// Stats are the counters for one whole run. They are owned by a single
// Driver and never reset between documents.
type Stats struct {
	Documents    int
	CodeBlocks   int
	FilesCreated int
	Headlines    int
	Skipped      int
	Warnings     int
	Errors       int
}

// Driver feeds documents through the extraction state machine, forces the
// final flush at end of input, and aggregates statistics across however many
// documents one run processes. It is not safe for concurrent use; run one
// Driver per goroutine and merge the stats afterwards if parallelism is
// needed.
type Driver struct {
	// FS receives all filesystem writes. Defaults to OSFS.
	FS WriteFS

	// Status receives progress and warning messages. Defaults to discard.
	Status StatusFunc

	// OnWrite, when set, runs after every successfully written file. A
	// returned error is counted and reported but never aborts the run.
	OnWrite func(path, lang string) error

	// Languages overrides the extension table. Defaults to
	// DefaultLanguages.
	Languages Languages

	cfg     Config
	stats   Stats
	machine *Machine
}

// NewDriver returns a Driver for one run. The exported fields may be set
// before the first document is processed.
func NewDriver(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

func (d *Driver) init() {
	if d.machine != nil {
		return
	}

	if d.FS == nil {
		d.FS = OSFS{}
	}

	if d.Status == nil {
		d.Status = func(string, ...any) {}
	}

	if d.Languages == nil {
		d.Languages = DefaultLanguages()
	}

	res := &Resolver{Root: d.cfg.OutputRoot, Langs: d.Languages}
	mat := &Materializer{fsys: d.FS, overwrite: d.cfg.Overwrite, dryRun: d.cfg.DryRun}

	d.machine = newMachine(res, mat, &d.stats, d.Status)
	d.machine.onWrite = d.OnWrite
}

// ProcessFile extracts code blocks from the markdown file at path. A missing
// or unreadable file is reported and skipped; the rest of the batch
// continues.
func (d *Driver) ProcessFile(path string) {
	d.init()

	f, err := os.Open(path)
	if err != nil {
		d.Status("error: cannot read %s: %v\n", path, err)

		return
	}
	defer f.Close()

	d.Process(path, f)
}

// Process extracts code blocks from a named in-memory document. Line
// terminators are stripped before classification and numbering restarts at 1
// for every document.
func (d *Driver) Process(name string, r io.Reader) {
	d.init()
	d.machine.doc = name

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		d.machine.Feed(strings.TrimSuffix(scanner.Text(), "\r"), num)
	}

	if err := scanner.Err(); err != nil {
		d.stats.Errors++
		d.Status("error: reading %s: %v\n", name, err)
	}

	d.machine.Finish()
	d.stats.Documents++
}

// Stats returns a snapshot of the run counters.
func (d *Driver) Stats() Stats {
	return d.stats
}
