// export_test.go exports private hooks for white-box testing.
package git

import "context"

// SetRunner swaps the command runner, returning a restore function.
func (c *ShellClient) SetRunner(fn func(ctx context.Context, dir string, args ...string) (string, string, error)) {
	c.run = fn
}

// SetMaxRetries bounds retry attempts during tests.
func (c *ShellClient) SetMaxRetries(n uint64) {
	c.maxRetries = n
}

var (
	ParseLsRemote     = parseLsRemote
	ParseSymrefHead   = parseSymrefHead
	IsTransient       = isTransient
	IsRevisionUnknown = isRevisionUnknown
)
