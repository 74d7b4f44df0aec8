package process

import (
	"io"
	"strings"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name resolved via PATH.
	Binary string
	Args   []string
	Dir    string
	// Env is appended to the parent environment as key=value pairs.
	Env   []string
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds.
	GracePeriod time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}
