//go:build headless

package main

import "errors"

// Run reports that this build has no audio output.
func (c *PlayCmd) Run(_ *runContext) error {
	return errors.New("play: built with the headless tag, no audio output available")
}
