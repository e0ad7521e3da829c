package tui

import "errors"

// ErrUserExit is returned when the user quits a prompt instead of answering it.
var ErrUserExit = errors.New("configuration aborted by user")
