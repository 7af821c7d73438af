package food

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// CostPercentage is the share of the sale price that ingredient cost is
// expected to represent.
const CostPercentage = 0.30

// CurrencyPlaces is the scale every stored amount is kept at.
const CurrencyPlaces int32 = 4

// RoundCurrency rounds amount half away from zero to CurrencyPlaces.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// CalculateCostPerPortion sums the unit price of every ingredient.
func CalculateCostPerPortion(ingredients []*Ingredient) decimal.Decimal {
	total := decimal.Zero
	for _, ingredient := range ingredients {
		total = total.Add(ingredient.PricePerMeasuringUnit)
	}
	return RoundCurrency(total)
}

// CalculateQuantityPerPortion sums the quantity of every ingredient.
func CalculateQuantityPerPortion(ingredients []*Ingredient) float64 {
	var total float64
	for _, ingredient := range ingredients {
		total += ingredient.QuantityInMeasuringUnit
	}
	return total
}

// CalculatePricePerPortion marks the cost up so that it makes up
// percentage of the resulting price, rounded to CurrencyPlaces.
func CalculatePricePerPortion(costPerPortion decimal.Decimal, percentage float64) (decimal.Decimal, error) {
	if costPerPortion.IsNegative() {
		return decimal.Zero, apperrors.NewInvalidArgumentError("costPerPortion", "must not be negative")
	}
	if percentage < 0 {
		return decimal.Zero, apperrors.NewInvalidArgumentError("costPercentage", "must not be negative")
	}
	if percentage == 0 {
		return decimal.Zero, apperrors.NewInvalidArgumentError("costPercentage", "must not be zero")
	}
	return RoundCurrency(costPerPortion.Div(decimal.NewFromFloat(percentage))), nil
}
