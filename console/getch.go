//go:build darwin || freebsd || linux

package console

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollInterval bounds both input latency and how long a halt can take
// to be observed.
const pollInterval = 100 * time.Millisecond

// inputReader polls the real terminal from a background goroutine and
// pushes every received byte into the console's input queue.
type inputReader struct {
	console *Console

	haltOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
}

func startInputReader(c *Console) (r *inputReader, err error) {
	r = &inputReader{
		console: c,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go r.run()
	return
}

func (r *inputReader) run() {
	defer close(r.exited)

	fd := int(os.Stdin.Fd())

	// Cbreak only when stdin is a real terminal; piped input already
	// arrives unbuffered. The original mode is restored on every exit
	// path.
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, state)
			enableCbreak(fd)
		}
	}

	syscall.SetNonblock(fd, true)
	defer syscall.SetNonblock(fd, false)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	buf := make([]byte, 16)
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}

		delivered := false
		for {
			n, err := syscall.Read(fd, buf)
			if n <= 0 || err != nil {
				break
			}
			for _, b := range buf[:n] {
				// Terminals in raw mode send CR for enter; cooked
				// pipes send LF. The machine sees CR either way.
				if b == '\n' {
					b = '\r'
				}
				r.console.push(b)
			}
			delivered = true
		}

		if delivered {
			r.console.notifyInput()
		}
	}
}

// enableCbreak relaxes raw mode to cbreak: MakeRaw also switches off
// output processing and the signal keys, but the simulation wants its
// output cooked and Ctrl-C working.
func enableCbreak(fd int) {
	tio, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return
	}
	tio.Oflag |= unix.OPOST
	tio.Lflag |= unix.ISIG
	unix.IoctlSetTermios(fd, ioctlWriteTermios, tio)
}

// halt stops the reader cooperatively and waits, bounded, for it to
// restore the terminal and exit.
func (r *inputReader) halt() {
	r.haltOnce.Do(func() { close(r.done) })

	select {
	case <-r.exited:
	case <-time.After(10 * pollInterval):
	}
}
