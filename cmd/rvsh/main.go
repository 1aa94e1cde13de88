package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rvsim/rvsh/bus"
	"github.com/rvsim/rvsh/console"
	"github.com/rvsim/rvsh/elf"
	"github.com/rvsim/rvsh/host"
	"github.com/rvsim/rvsh/kernel"
	"github.com/rvsim/rvsh/kernel/native"
)

const version = "2023-11-09-1200"

const minMemSize = 32 * 1024

// openLog resolves a log destination: "-" is stderr, anything else is
// a file whose close runs at shutdown.
func openLog(path string) io.Writer {
	if path == "" {
		return nil
	}
	if path == "-" {
		return os.Stderr
	}
	fd, err := os.Create(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	host.OnShutdown(func() { fd.Close() })
	return fd
}

func main() {
	var checksum bool
	var disasm bool
	var debugLog string
	var inputFile string
	var pause bool
	var memExpr string
	var traceLog string
	var cache bool
	var statsLog string

	flag.BoolVar(&checksum, "c", false, "Compute and display the RAM checksum with every trace log entry (SLOW).")
	flag.BoolVar(&disasm, "D", false, "Include instruction disassembly in each trace log record (if kernel supports).")
	flag.StringVar(&debugLog, "d", "", "Save debug log messages to FILE (or STDERR if FILE is '-')")
	flag.StringVar(&inputFile, "i", "", "Take console input from playback FILE instead of host TTY.")
	flag.BoolVar(&pause, "p", false, "Pause (after printing PID) to allow debugger attachment.")
	flag.StringVar(&memExpr, "r", "32k", "Size of memory in bytes (k/m/g valid as scale suffixen)")
	flag.StringVar(&traceLog, "t", "", "Save trace log messages to FILE (or STDERR if FILE is '-')")
	flag.BoolVar(&cache, "k", false, "Enable memory cache (if implemented by KERNEL)")
	flag.StringVar(&statsLog, "s", "", "Append performance stats to CSV_FILE")

	fmt.Println("RISC-V Sim Host, Version:", version)
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		log.Fatalf("%v: usage: KERNEL_BIN [RISCV_ELF_BIN]", os.Args[0])
	}
	kernelPath := flag.Arg(0)
	modulePath := flag.Arg(1)

	memSize, err := host.ParseMemSize(memExpr)
	if err != nil {
		log.Fatalf("%v: %v", memExpr, err)
	}
	if memSize < minMemSize {
		log.Fatalf("memory size must be at least 32KB")
	}

	k, err := native.Open(kernelPath)
	if err != nil {
		log.Fatalf("%v: %v", kernelPath, err)
	}

	b, err := bus.New(memSize)
	if err != nil {
		log.Fatalf("%v: %v", memExpr, err)
	}
	b.TraceLog = openLog(traceLog)
	b.DebugLog = openLog(debugLog)
	b.TraceChecksum = checksum
	b.Fault = func(msg string) {
		fmt.Fprintln(os.Stderr, "PANIC: "+msg)
		host.RunShutdown()
		os.Exit(1)
	}

	info := k.Info()
	if disasm && info.Has(kernel.CapDisasm) {
		b.Disasm = func(addr uint64, instr uint32) string {
			text, _ := k.Disasm(addr, instr)
			return text
		}
	}

	if pause {
		fmt.Printf("press ENTER to continue (pid=%d)", os.Getpid())
		bufio.NewReader(os.Stdin).ReadString('\n')
	}

	m := &host.Machine{Bus: b, Kernel: k}
	author, err := m.Validate()
	if err != nil {
		log.Fatalf("%v: %v", kernelPath, err)
	}
	fmt.Printf("Author(%s): %s\n", kernelPath, author)

	if cache && !info.Has(kernel.CapCache) {
		fmt.Printf("WARNING: -k specified, but %s does not implement 'cache'...\n", kernelPath)
	}
	if info.Has(kernel.CapUsr) && memSize < 64*1024 {
		fmt.Printf("WARNING: %s supports 'usr' mode; you should probably have at least 64KB of RAM...\n", kernelPath)
	}

	switch {
	case modulePath != "":
		run(m, info, author, modulePath, inputFile, cache, statsLog,
			traceLog != "" || inputFile != "")
	case info.Has(kernel.CapMockup):
		fmt.Println("Attribute 'mockup' detected; running mockup sanity checks...")
		// At least 2 rounds to verify proper re-init, and many more to
		// catch huge-resource-allocation bugs.
		for range 100 {
			if err := kernel.SanityCheck(k); err != nil {
				log.Fatalf("%v: %v", kernelPath, err)
			}
		}
		fmt.Println("ALL SANITY CHECKS PASSED--WELL DONE")
	}

	host.RunShutdown()
}

// run loads one ELF module and executes it to completion.
func run(m *host.Machine, info kernel.Info, author, modulePath, inputFile string, cache bool, statsLog string, trace bool) {
	img, err := elf.Open(modulePath)
	if err != nil {
		log.Fatalf("%v: %v", modulePath, err)
	}
	if err := m.Bus.LoadImage(img); err != nil {
		log.Fatalf("%v: %v", modulePath, err)
	}
	fmt.Printf("MD5(%s): %s\n", modulePath, m.Bus.Checksum())

	var notify func()
	if info.Has(kernel.CapIRQ) {
		notify = func() { m.Kernel.Signal(kernel.SignalIRQ) }
	}
	if inputFile != "" {
		fd, err := os.Open(inputFile)
		if err != nil {
			log.Fatalf("%v: %v", inputFile, err)
		}
		m.Console, err = console.NewPlayback(fd, os.Stdout, notify)
		fd.Close()
		if err != nil {
			log.Fatalf("%v: %v", inputFile, err)
		}
	} else {
		m.Console, err = console.NewInteractive(os.Stdout, notify)
		if err != nil {
			log.Fatalf("%v: %v", modulePath, err)
		}
	}
	m.Console.Attach(m.Bus)
	host.OnShutdown(func() { m.Console.Close() })

	flags := kernel.ConfigNothing
	if trace {
		// Playback timing is driven by trace heartbeats, so tracing
		// must be on even without a trace log to save.
		flags |= kernel.ConfigTraceLog
	}
	if cache {
		flags |= kernel.ConfigCache
	}
	if err := m.Setup(img, flags); err != nil {
		log.Fatalf("%v: %v", modulePath, err)
	}

	fmt.Printf("\n%s\n\n", strings.Repeat("-", 60))
	r := m.Run()
	r.Print(os.Stdout, cache)

	if statsLog != "" {
		fd, err := os.OpenFile(statsLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", statsLog, err)
		}
		defer fd.Close()
		if err := r.AppendStats(fd, author, modulePath); err != nil {
			log.Fatalf("%v: %v", statsLog, err)
		}
	}
}
