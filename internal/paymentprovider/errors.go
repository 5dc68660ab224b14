package paymentprovider

import (
	"errors"
	"fmt"
)

var (
	ErrProductCreation = errors.New("payment provider: product creation failed")
	ErrPriceCreation   = errors.New("payment provider: price creation failed")
	ErrSessionCreation = errors.New("payment provider: session creation failed")
)

// StepError ошибка конкретного шага. Сопоставляется через errors.Is
// и с сентинелом шага, и с исходной причиной.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{e.sentinel(), e.Err}
}

func (e *StepError) sentinel() error {
	switch e.Step {
	case StepProduct:
		return ErrProductCreation
	case StepPrice:
		return ErrPriceCreation
	default:
		return ErrSessionCreation
	}
}

func stepError(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}
