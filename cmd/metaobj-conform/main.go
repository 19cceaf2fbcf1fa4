// Command metaobj-conform runs the behaviour scenarios against the object
// model and reports which pass.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	gs := &globalState{
		ctx:    ctx,
		args:   os.Args[1:],
		env:    buildEnvMap(os.Environ()),
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	code := gs.execute()
	stop()
	os.Exit(code)
}
