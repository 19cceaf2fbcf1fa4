package conformance

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/sirupsen/logrus"

	"metaobj/pkg/driver"
)

// Tags used to group scenarios.
const (
	TagOrdinary   = "ordinary"
	TagArray      = "array"
	TagString     = "string"
	TagTypedArray = "typedarray"
	TagArguments  = "arguments"
	TagFunction   = "function"
	TagSymbol     = "symbol"
	TagProxy      = "proxy"
	TagReflect    = "reflect"
)

// Scenario is a named behaviour check. Run receives a Case bound to a
// fresh runtime.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Run         func(c *Case)
}

// HasTag reports whether the scenario carries tag.
func (s Scenario) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Tags     []string
	Err      error
	Duration time.Duration
	WorkerID int
}

func (r *Result) Passed() bool { return r.Err == nil }

// Execute runs s in a new runtime built from conf. A panic inside the
// scenario is reported as a failure.
func (s Scenario) Execute(conf driver.Config, logger logrus.FieldLogger) (res *Result) {
	start := time.Now()
	res = &Result{Name: s.Name, Tags: s.Tags}
	defer func() {
		res.Duration = time.Since(start)
	}()

	rt, err := driver.NewRuntime(conf, logger)
	if err != nil {
		res.Err = fmt.Errorf("creating runtime: %w", err)
		return res
	}
	c := newCase(rt)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				if h, ok := rec.(halt); ok {
					c.Errorf("%v", h.err)
					return
				}
				c.Errorf("panic: %v", rec)
			}
		}()
		s.Run(c)
	}()
	res.Err = c.err()
	return res
}

// All returns every scenario sorted by name.
func All() []Scenario {
	var all []Scenario
	for _, group := range [][]Scenario{
		ordinaryScenarios(),
		arrayScenarios(),
		stringScenarios(),
		typedArrayScenarios(),
		argumentsScenarios(),
		functionScenarios(),
		symbolScenarios(),
		proxyScenarios(),
		reflectScenarios(),
	} {
		all = append(all, group...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Filter selects scenarios by name and tag.
type Filter struct {
	// Pattern is an ECMAScript regular expression matched against the
	// scenario name. Empty matches everything.
	Pattern string
	// Tags keeps scenarios carrying at least one of them. Empty keeps all.
	Tags []string
}

// Select returns the scenarios matching f, keeping their order.
func Select(scenarios []Scenario, f Filter) ([]Scenario, error) {
	var re *regexp2.Regexp
	if f.Pattern != "" {
		var err error
		re, err = regexp2.Compile(f.Pattern, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario pattern %q: %w", f.Pattern, err)
		}
		re.MatchTimeout = time.Second
	}

	var out []Scenario
	for _, s := range scenarios {
		if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, s.HasTag) {
			continue
		}
		if re != nil {
			ok, err := re.MatchString(s.Name)
			if err != nil {
				return nil, fmt.Errorf("matching %s: %w", s.Name, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(list string) []string {
	var tags []string
	for _, t := range strings.Split(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
