package main

import (
	"fmt"

	"github.com/fwojciec/docsnap"
)

// Run executes the verify command.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	if err := deps.Validator.ValidateDir(c.Snapshot); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}

	if err := deps.Snapshot.Initialize(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}

	stats, err := deps.Snapshot.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "OK: %s %s, %d documents (searcher %s)\n",
		stats.Manifest.Name, stats.Manifest.Version, stats.DocCount, stats.Searcher)
	return nil
}
