package bubble_tea

import (
	"errors"

	"powertun/presentation/configuring/tui"
)

type TextInputAdapter struct {
	input     *TextInput
	teaRunner TeaRunner
}

func NewTextInputAdapter() tui.TextInputFactory {
	return &TextInputAdapter{teaRunner: &defaultTeaRunner{}}
}

func NewCustomTeaRunnerTextInputAdapter(teaRunner TeaRunner) tui.TextInputFactory {
	return &TextInputAdapter{teaRunner: teaRunner}
}

func (a *TextInputAdapter) NewTextInput(placeholder, initial string) (tui.TextInput, error) {
	model, err := a.teaRunner.Run(NewTextInput(placeholder, initial))
	if err != nil {
		return nil, err
	}
	input, ok := model.(*TextInput)
	if !ok {
		return nil, errors.New("invalid text input type")
	}
	return &TextInputAdapter{input: input, teaRunner: a.teaRunner}, nil
}

func (a *TextInputAdapter) Value() (string, error) {
	if !a.input.Submitted() {
		return "", tui.ErrUserExit
	}
	return a.input.Value(), nil
}
