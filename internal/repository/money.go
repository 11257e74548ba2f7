package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/domain"
)

// mapMoney parses the (amount, currency) column pair persisted for every
// monetary value.
func mapMoney(amountStr, currencyStr string) (domain.Money, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount[%s] is not valid: %w", amountStr, err)
	}

	parsedCurrency, err := currency.ParseISO(currencyStr)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyStr, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}
