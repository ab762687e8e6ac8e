package main

import (
	"fmt"

	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/build"
)

// routeDisplayWidth bounds the routes printed in progress lines.
const routeDisplayWidth = 60

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	progress := func(event build.ProgressEvent) {
		switch event.Type {
		case build.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d pages\n", event.Total)
		case build.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", build.TruncateRoute(event.Route, routeDisplayWidth), docsnap.ErrorMessage(event.Error))
		case build.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", build.TruncateRoute(event.Route, routeDisplayWidth), event.Error)
		case build.ProgressFinished:
			// Summary printed after build completes
		}
	}

	result, err := deps.Builder.Build(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error building snapshot: %s\n", docsnap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d pages (%s)", result.Processed, build.FormatBytes(result.Bytes))
	if result.Skipped > 0 || result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, ", skipped %d, failed %d", result.Skipped, result.Failed)
	}
	if result.Fallbacks > 0 {
		fmt.Fprintf(deps.Stdout, ", %d as plain text", result.Fallbacks)
	}
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintf(deps.Stdout, "Wrote snapshot %s %s to %s (build %s)\n",
		result.Manifest.Name, result.Manifest.Version, c.Out, result.Manifest.BuildID)
	return nil
}
