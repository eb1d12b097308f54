package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Response represents a pre-configured command response for FakeCommander.
type Response struct {
	Output []byte
	Err    error
}

// FakeCommander returns pre-configured responses for testing.
// Responses are keyed by "name arg1 arg2 ..." format. A command invoked by
// absolute path also matches keys written with its base name, so
// "multi help" answers "/tmp/x/.local/bin/multi help".
// If no exact match is found, it tries prefix matching.
type FakeCommander struct {
	// Responses maps command strings to their responses.
	Responses map[string]Response

	// Calls records all commands that were executed, in order, as invoked.
	Calls []string

	// EnvCalls records the environment variable maps passed to RunWithEnv, in order.
	EnvCalls []map[string]string

	// DefaultResponse is returned when no matching response is found.
	// If nil, an error is returned for unmatched commands.
	DefaultResponse *Response
}

// NewFakeCommander creates a FakeCommander with an empty response map.
func NewFakeCommander() *FakeCommander {
	return &FakeCommander{
		Responses: make(map[string]Response),
	}
}

// Register adds a response for the given command key.
func (c *FakeCommander) Register(key string, output string, err error) {
	c.Responses[key] = Response{
		Output: []byte(output),
		Err:    err,
	}
}

func joinCommand(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// Run looks up the command in Responses and returns the matching response.
func (c *FakeCommander) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	fullCmd := joinCommand(name, args)
	c.Calls = append(c.Calls, fullCmd)

	candidates := []string{fullCmd}
	if base := filepath.Base(name); base != name {
		candidates = append(candidates, joinCommand(base, args))
	}

	for _, cmd := range candidates {
		if resp, ok := c.Responses[cmd]; ok {
			return resp.Output, resp.Err
		}
	}

	// Longest prefix wins.
	bestKey := ""
	for _, cmd := range candidates {
		for key := range c.Responses {
			if strings.HasPrefix(cmd, key) && len(key) > len(bestKey) {
				bestKey = key
			}
		}
	}
	if bestKey != "" {
		resp := c.Responses[bestKey]
		return resp.Output, resp.Err
	}

	if c.DefaultResponse != nil {
		return c.DefaultResponse.Output, c.DefaultResponse.Err
	}

	return nil, fmt.Errorf("FakeCommander: no response registered for %q", fullCmd)
}

// RunWithEnv records the environment variables and delegates to Run logic.
func (c *FakeCommander) RunWithEnv(ctx context.Context, env map[string]string, name string, args ...string) ([]byte, error) {
	c.EnvCalls = append(c.EnvCalls, env)
	return c.Run(ctx, name, args...)
}

// Called returns true if a command matching the given prefix was executed.
func (c *FakeCommander) Called(prefix string) bool {
	return c.CallCount(prefix) > 0
}

// CallCount returns the number of executed commands matching the given
// prefix, comparing against both the invoked name and its base name.
func (c *FakeCommander) CallCount(prefix string) int {
	count := 0
	for _, call := range c.Calls {
		name, rest, _ := strings.Cut(call, " ")
		short := filepath.Base(name)
		if rest != "" {
			short += " " + rest
		}
		if strings.HasPrefix(call, prefix) || strings.HasPrefix(short, prefix) {
			count++
		}
	}
	return count
}
