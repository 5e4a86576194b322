package http

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

// MaxPortAttempts is how many consecutive ports Listen tries.
const MaxPortAttempts = 20

// Listen binds host:port. When explicit is false and the port is taken,
// the following ports are tried up to MaxPortAttempts in total.
// The returned int is the port actually bound.
func Listen(host string, port int, explicit bool) (net.Listener, int, error) {
	attempts := MaxPortAttempts
	if explicit {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		candidate := port + i
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(candidate)))
		if err == nil {
			return ln, ln.Addr().(*net.TCPAddr).Port, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, err
		}
		if explicit {
			return nil, 0, fmt.Errorf("port %d is already in use", candidate)
		}
	}

	return nil, 0, fmt.Errorf("could not find an available port after %d attempts (%d-%d)",
		MaxPortAttempts, port, port+MaxPortAttempts-1)
}
