package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/docsnap"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Query.Search(deps.Ctx, c.Query, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, docsnap.FormatSearchResults(c.Query, results))
	return nil
}

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	doc, err := deps.Query.GetDocument(deps.Ctx, c.Route)
	if docsnap.ErrorCode(err) == docsnap.ENOTFOUND {
		fmt.Fprintln(deps.Stderr, docsnap.FormatPageNotFound(c.Route))
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, docsnap.FormatDocument(doc))
	return nil
}

// Run executes the section command.
func (c *SectionCmd) Run(deps *Dependencies) error {
	section, err := deps.Query.GetSection(deps.Ctx, c.Route, c.Heading)

	var nf *docsnap.SectionNotFoundError
	switch {
	case errors.As(err, &nf):
		fmt.Fprintln(deps.Stderr, docsnap.FormatSectionNotFound(nf))
		return err
	case docsnap.ErrorCode(err) == docsnap.ENOTFOUND:
		fmt.Fprintln(deps.Stderr, docsnap.FormatPageNotFound(c.Route))
		return err
	case err != nil:
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, docsnap.FormatSection(section))
	return nil
}
