package main

import (
	"fmt"
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// parseLevel maps a level name, as printed by logiface.Level.String, to the
// level itself.
func parseLevel(name string) (logiface.Level, error) {
	if name == "disabled" {
		return logiface.LevelDisabled, nil
	}
	for level := logiface.LevelEmergency; level <= logiface.LevelTrace; level++ {
		if level.String() == name {
			return level, nil
		}
	}
	return logiface.LevelDisabled, fmt.Errorf("%w: %q", errUnknownLevel, name)
}

// newLogger builds a JSON logger writing to w.
func newLogger(w io.Writer, levelName string) (*logiface.Logger[logiface.Event], error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger(), nil
}
