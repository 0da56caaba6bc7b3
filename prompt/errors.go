package prompt

import "errors"

// Parse errors carry the message shown to the user before re-prompting.
var (
	ErrNameHasDigit     = errors.New("Recipe name cannot contain numbers. Please try again.")
	ErrBlankName        = errors.New("Name cannot be empty. Please try again.")
	ErrNotPositiveCount = errors.New("Invalid input. Please enter a valid number greater than zero.")
	ErrNotPositive      = errors.New("Invalid input. Please enter a valid number greater than zero.")
	ErrBadScaleFactor   = errors.New("Invalid input. Please enter a valid scaling factor.")
	ErrUnknownUnit      = errors.New("Invalid unit. Please choose from the provided list.")
)

// ErrInputClosed is returned when input ends before a valid answer is read.
var ErrInputClosed = errors.New("input closed before a valid answer was given")
