package main

import (
	"errors"

	"github.com/spf13/pflag"

	"metaobj/pkg/conformance"
)

var errNoScenarios = errors.New("no scenarios match the filter")

func filterFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("filter", "f", "", "only scenarios whose name matches this regular expression")
	flags.StringP("tags", "t", "", "only scenarios carrying one of these comma separated tags")
	return flags
}

// selectScenarios applies the filter flags to the full catalogue.
func selectScenarios(flags *pflag.FlagSet) ([]conformance.Scenario, error) {
	pattern, err := flags.GetString("filter")
	if err != nil {
		return nil, err
	}
	tags, err := flags.GetString("tags")
	if err != nil {
		return nil, err
	}
	selected, err := conformance.Select(conformance.All(), conformance.Filter{
		Pattern: pattern,
		Tags:    conformance.ParseTags(tags),
	})
	if err != nil {
		return nil, withExitCodeIfNone(err, exitInvalidConfig)
	}
	if len(selected) == 0 {
		return nil, withExitCodeIfNone(errNoScenarios, exitNoScenarios)
	}
	return selected, nil
}
