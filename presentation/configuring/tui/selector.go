package tui

type (
	// Selector returns the option the user picked, or ErrUserExit.
	Selector interface {
		SelectOne() (string, error)
	}

	SelectorFactory interface {
		NewTuiSelector(placeholder string, options []string) (Selector, error)
	}
)
