package core

import (
	"reflect"
	"time"
)

// NodeOption configures a Node, BatchNode or Flow at construction.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	name        string
	params      Params
	maxRetries  int
	wait        time.Duration
	parallelism int
}

// WithName sets the name reported in errors and events.
func WithName(name string) NodeOption {
	return func(c *nodeConfig) {
		c.name = name
	}
}

// WithParams sets the initial node parameters.
func WithParams(params Params) NodeOption {
	return func(c *nodeConfig) {
		c.params = params
	}
}

// WithMaxRetries sets the total number of Exec attempts. Values below 1 mean 1.
func WithMaxRetries(retries int) NodeOption {
	return func(c *nodeConfig) {
		c.maxRetries = retries
	}
}

// WithWait sets the delay between Exec attempts.
func WithWait(wait time.Duration) NodeOption {
	return func(c *nodeConfig) {
		c.wait = wait
	}
}

// WithParallelism bounds how many batch items execute at once. Values below 2
// run items sequentially. Ignored by Node and Flow.
func WithParallelism(workers int) NodeOption {
	return func(c *nodeConfig) {
		c.parallelism = workers
	}
}

func buildConfig(defaultName string, opts []NodeOption) nodeConfig {
	cfg := nodeConfig{
		name:        defaultName,
		maxRetries:  1,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxRetries < 1 {
		cfg.maxRetries = 1
	}
	if cfg.wait < 0 {
		cfg.wait = 0
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = 1
	}
	return cfg
}

func (c nodeConfig) policy() retryPolicy {
	return retryPolicy{maxRetries: c.maxRetries, wait: c.wait}
}

// typeName returns the Go type name of v without pointer or package prefix.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "node"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
