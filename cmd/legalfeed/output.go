package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/legalfeed"
)

// emit writes v to stdout as indented JSON.
func (d *Dependencies) emit(v any) error {
	enc := json.NewEncoder(d.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints err's message and returns err.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", legalfeed.ErrorMessage(err))
	return err
}

// archived reports how many records the archive wrote.
func (d *Dependencies) archived(n int, err error) error {
	if err != nil {
		return d.fail(err)
	}
	if n > 0 {
		fmt.Fprintf(d.Stderr, "archived %d new or changed records\n", n)
	}
	return nil
}
