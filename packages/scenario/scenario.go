// Package scenario holds the probe chains for the Orange asset API.
//
// Each scenario walks one entity lifecycle (create, read, list, update,
// read, delete, read-after-delete) or, for "asset", the composite
// department -> location -> assignee -> asset lifecycle with assign/return
// and cleanup. A chain that cannot capture a required id prints why and
// stops; that is a normal outcome, not a failure.
package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
)

// Default is the scenario run when none is named.
const Default = "asset"

// Func drives one probe chain.
type Func func(ctx context.Context, r *runner.Runner, v fixture.Values) error

// Scenario is a named probe chain together with the case names it can issue.
type Scenario struct {
	Name        string
	Description string
	Cases       []string
	Run         Func
}

var registry = map[string]*Scenario{}

func register(s *Scenario) {
	registry[s.Name] = s
}

// Lookup returns the scenario called name.
func Lookup(name string) (*Scenario, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names lists registered scenarios in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered scenario sorted by name.
func All() []*Scenario {
	var all []*Scenario
	for _, name := range Names() {
		all = append(all, registry[name])
	}
	return all
}

// Execute runs s through r with values v.
func Execute(ctx context.Context, r *runner.Runner, s *Scenario, v fixture.Values) (*runner.RunResult, error) {
	return r.Run(ctx, s.Name, func(ctx context.Context, r *runner.Runner) error {
		return s.Run(ctx, r, v)
	})
}

// health is the first case of every scenario.
func health() runner.Case {
	return runner.Get("health", "/health")
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
