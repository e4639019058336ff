package commands

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCommand  = errors.New("command already registered")
	ErrRegistrySealed    = errors.New("registry is sealed")
	ErrInvalidDefinition = errors.New("invalid command definition")
	ErrInvalidOption     = errors.New("invalid option")
)

// OptionError describes why an option value was refused. It is shown to the
// user as-is.
type OptionError struct {
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	if e.Option == "" {
		return e.Reason
	}
	return fmt.Sprintf("option %q %s", e.Option, e.Reason)
}

func (e *OptionError) Unwrap() error {
	return ErrInvalidOption
}

func optionError(option, format string, args ...interface{}) error {
	return &OptionError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

func definitionError(name, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidDefinition, name, fmt.Sprintf(format, args...))
}
