//go:build !(darwin || freebsd || linux)

package console

type inputReader struct{}

func startInputReader(c *Console) (*inputReader, error) {
	return nil, ErrUnsupported
}

func (r *inputReader) halt() {}
