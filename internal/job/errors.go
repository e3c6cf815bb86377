package job

import (
	"errors"
	"fmt"
)

// ErrRandomness marks a job that could not obtain a seed.
var ErrRandomness = errors.New("obtain randomness")

// Job stages reported on failure.
const (
	StageDecode     = "decode"
	StageRandomness = "randomness"
	StageGenerate   = "generate"
	StageStore      = "store"
	StageRemove     = "remove"
	StageSubmit     = "submit"
)

// StageError reports the step at which a job stopped.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the failed stage of err, or "" if err is not a StageError.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
