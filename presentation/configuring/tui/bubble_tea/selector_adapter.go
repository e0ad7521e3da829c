package bubble_tea

import (
	"errors"

	"powertun/presentation/configuring/tui"
)

type SelectorAdapter struct {
	selector  Selector
	teaRunner TeaRunner
}

func NewSelectorAdapter() tui.SelectorFactory {
	return &SelectorAdapter{
		teaRunner: &defaultTeaRunner{},
	}
}

func NewCustomTeaRunnerSelectorAdapter(teaRunner TeaRunner) tui.SelectorFactory {
	return &SelectorAdapter{
		teaRunner: teaRunner,
	}
}

func (s *SelectorAdapter) NewTuiSelector(placeholder string, options []string) (tui.Selector, error) {
	model, err := s.teaRunner.Run(NewSelector(placeholder, options))
	if err != nil {
		return nil, err
	}

	result, ok := model.(Selector)
	if !ok {
		return nil, errors.New("invalid selector type")
	}

	return &SelectorAdapter{selector: result, teaRunner: s.teaRunner}, nil
}

func (s *SelectorAdapter) SelectOne() (string, error) {
	if s.selector.QuitRequested() || s.selector.Choice() == "" {
		return "", tui.ErrUserExit
	}
	return s.selector.Choice(), nil
}
