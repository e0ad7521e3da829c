package mode

import "fmt"

// NoModeProvided is returned when a role is required but none was given.
type NoModeProvided struct {
}

func NewNoModeProvided() NoModeProvided {
	return NoModeProvided{}
}

func (n NoModeProvided) Error() string {
	return "no mode provided"
}

type InvalidModeProvided struct {
	mode string
}

func NewInvalidModeProvided(mode string) InvalidModeProvided {
	return InvalidModeProvided{
		mode: mode,
	}
}

func (i InvalidModeProvided) Error() string {
	if i.mode == "" {
		return "empty string is not a valid mode"
	}
	return fmt.Sprintf("%s is not a valid mode", i.mode)
}
