package host

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rvsim/rvsh/bus"
	"github.com/rvsim/rvsh/console"
	"github.com/rvsim/rvsh/elf"
	"github.com/rvsim/rvsh/kernel"
)

// report formats counters with thousands separators.
var report = message.NewPrinter(language.English)

// Machine ties the memory bus, the serial console and a loaded kernel
// together.
type Machine struct {
	Bus     *bus.Bus
	Kernel  kernel.Kernel
	Console *console.Console // nil until a program is loaded
}

// Validate checks the kernel's mandatory metadata and returns its
// author string. API version 1.0 is the only one supported.
func (m *Machine) Validate() (author string, err error) {
	info := m.Kernel.Info()

	api, ok := info.Get("api")
	if !ok {
		return "", ErrNoAPI
	}
	if api != "1.0" {
		return "", ErrAPIVersion(api)
	}

	author, ok = info.Get("author")
	if !ok || author == "" {
		return "", ErrNoAuthor
	}
	return author, nil
}

// Setup resets the CPU, binds it to the bus, sets the configuration
// flags and applies the image's embedded compat script when present.
// The trace register history is seeded after the script runs, so the
// first trace record reports no spurious changes.
func (m *Machine) Setup(img *elf.Image, flags kernel.Config) error {
	m.Kernel.Init(m.Bus)
	m.Kernel.ConfigSet(flags)

	section, ok := img.Section(elf.CompatSection)
	if !ok {
		return nil
	}
	script, err := elf.ParseCompat(section, img.Entry())
	if err != nil {
		return err
	}
	script.Apply(m.Kernel)

	var regs [32]uint64
	for i := range regs {
		regs[i] = m.Kernel.RegGet(i)
	}
	m.Bus.SeedHistory(regs)
	return nil
}

// Report is the outcome of one timed run.
type Report struct {
	Elapsed time.Duration
	Stats   kernel.Stats
}

// Run executes the loaded program to completion under wall-clock
// timing.
func (m *Machine) Run() Report {
	start := time.Now()
	m.Kernel.Run(0)
	return Report{
		Elapsed: time.Since(start),
		Stats:   m.Kernel.Stats(),
	}
}

// Print writes the performance summary: instruction throughput, then
// the load/store counters, with miss rates when caching was on.
func (r Report) Print(w io.Writer, cache bool) {
	seconds := r.Elapsed.Seconds()
	if seconds > 0 {
		ips := float64(r.Stats.Instructions) / seconds
		report.Fprintf(w, "%d instructions in %.3f seconds (%.1f IPS)\n",
			r.Stats.Instructions, seconds, ips)
	} else {
		report.Fprintf(w, "%d instructions in no measurable time\n",
			r.Stats.Instructions)
	}

	if cache {
		report.Fprintf(w, "Loads: %d of which %d missed (miss rate: %.2f%%)\n",
			r.Stats.Loads, r.Stats.LoadMisses, missRate(r.Stats.LoadMisses, r.Stats.Loads))
		report.Fprintf(w, "Stores: %d of which %d missed (miss rate: %.2f%%)\n",
			r.Stats.Stores, r.Stats.StoreMisses, missRate(r.Stats.StoreMisses, r.Stats.Stores))
	} else {
		report.Fprintf(w, "Loads: %d\n", r.Stats.Loads)
		report.Fprintf(w, "Stores: %d\n", r.Stats.Stores)
	}
}

func missRate(misses, total uint32) float64 {
	if total == 0 {
		return 0
	}
	return float64(misses) / float64(total) * 100
}

// AppendStats appends one raw-counters CSV row: author, module,
// seconds, instructions, loads, load misses, stores, store misses.
func (r Report) AppendStats(w io.Writer, author, module string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		author,
		module,
		strconv.FormatFloat(r.Elapsed.Seconds(), 'g', -1, 64),
		strconv.FormatUint(uint64(r.Stats.Instructions), 10),
		strconv.FormatUint(uint64(r.Stats.Loads), 10),
		strconv.FormatUint(uint64(r.Stats.LoadMisses), 10),
		strconv.FormatUint(uint64(r.Stats.Stores), 10),
		strconv.FormatUint(uint64(r.Stats.StoreMisses), 10),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
