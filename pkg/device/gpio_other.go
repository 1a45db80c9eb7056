//go:build !linux

package device

import "fmt"

type GPIOOutput struct{}

func OpenGPIOOutput(chip string, offset int) (*GPIOOutput, error) {
	return nil, fmt.Errorf("%w: gpio %s:%d requires linux", ErrLineUnavailable, chip, offset)
}

func (o *GPIOOutput) SetLevel(level Level) error {
	return ErrLineUnavailable
}

func (o *GPIOOutput) Close() error {
	return nil
}

type GPIOInput struct{}

func OpenGPIOInput(chip string, offset int, bufferSize int) (*GPIOInput, error) {
	return nil, fmt.Errorf("%w: gpio %s:%d requires linux", ErrLineUnavailable, chip, offset)
}

func (in *GPIOInput) Edges() <-chan Edge {
	return nil
}

func (in *GPIOInput) Close() error {
	return nil
}
