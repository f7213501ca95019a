package currencyinput

import "errors"

// ErrInvalidConfiguration indicates a session option that can never produce a usable field.
var ErrInvalidConfiguration = errors.New("currencyinput: invalid configuration")

// ErrMalformedValue indicates input that cannot be canonicalized into a raw value.
var ErrMalformedValue = errors.New("currencyinput: malformed value")

// ErrUnknownCurrency marks currency codes x/text does not recognize
var ErrUnknownCurrency = errors.New("currencyinput: unknown currency")
