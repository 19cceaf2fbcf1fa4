package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"metaobj/pkg/driver"
	"metaobj/pkg/vm"
)

func newRootCommand(gs *globalState) *cobra.Command {
	root := &cobra.Command{
		Use:           "metaobj-conform",
		Short:         "Check the object model against its behaviour scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return gs.setup(cmd.Flags())
		},
	}
	root.PersistentFlags().AddFlagSet(rootFlagSet())
	root.SetOut(gs.stdout)
	root.SetErr(gs.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCodeIfNone(err, exitInvalidConfig)
	})

	root.AddCommand(getCmdRun(gs), getCmdList(gs))
	return root
}

func rootFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP("config", "c", "", "YAML config file")
	flags.String("log-level", logrus.InfoLevel.String(), "log level (trace, debug, info, warning, error)")
	flags.String("log-format", driver.LogFormatText, `log format, "text" or "json"`)
	flags.Int64("max-call-depth", vm.DefaultMaxCallDepth, "maximum nesting of calls and proxy traps")
	flags.Bool("trace-traps", false, "log every proxy trap dispatch at trace level")
	flags.Bool("no-color", false, "disable coloured output")
	return flags
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}

func getNullInt64(flags *pflag.FlagSet, key string) null.Int {
	v, err := flags.GetInt64(key)
	if err != nil {
		panic(err)
	}
	return null.NewInt(v, flags.Changed(key))
}

func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

// setup consolidates the configuration and builds the logger.
func (gs *globalState) setup(flags *pflag.FlagSet) error {
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return err
	}
	gs.noColor = gs.noColor || noColor

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	cli := driver.Config{
		LogLevel:     getNullString(flags, "log-level"),
		LogFormat:    getNullString(flags, "log-format"),
		MaxCallDepth: getNullInt64(flags, "max-call-depth"),
		TraceTraps:   getNullBool(flags, "trace-traps"),
	}
	conf, err := driver.GetConsolidatedConfig(gs.fs, path, gs.env, cli)
	if err != nil {
		return withExitCodeIfNone(err, exitInvalidConfig)
	}
	logger, err := driver.NewLogger(conf, gs.stderr)
	if err != nil {
		return withExitCodeIfNone(err, exitInvalidConfig)
	}
	gs.config = conf
	gs.logger = logger
	return nil
}
