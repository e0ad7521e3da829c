package tui

type (
	TextInput interface {
		Value() (string, error)
	}
	TextInputFactory interface {
		NewTextInput(placeholder, initial string) (TextInput, error)
	}
)
