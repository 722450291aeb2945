package handlers

import (
	"errors"

	"invest/internal/money"

	"github.com/go-playground/validator/v10"
)

var errInvalidAmount = errors.New("invalid amount")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

// validationMessage flattens validator.ValidationErrors into the first
// offending field for the error response.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return "invalid field: " + fieldErrors[0].Field()
	}
	return "invalid payload"
}
