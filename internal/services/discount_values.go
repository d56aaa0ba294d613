package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/models/dtos"
	"discount-system/vitrina/internal/providers"
)

// NormalizeDiscount turns a raw discount cell into a number.
// Missing cells are 0, numbers pass through, strings may carry one trailing "%".
// A string that is empty once cleaned, such as "%", is not a number.
// Values keep the unit they were typed in: "5%" and 5 both become 5.
func NormalizeDiscount(cell providers.Cell) (float64, error) {
	switch cell.Kind {
	case providers.CellMissing:
		return 0, nil
	case providers.CellNumber:
		return cell.Number, nil
	}

	s := strings.TrimSpace(cell.Text)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrDiscountParse, cell.Text)
	}
	return v, nil
}

// ScaleForDisplay converts stored values to the figures shown by the JSON API, rounded to 2 places
func ScaleForDisplay(v dtos.DiscountValues) dtos.DiscountValues {
	return dtos.DiscountValues{
		MppDiscount: roundTo2(v.MppDiscount * constants.DiscountDisplayScale),
		OptDiscount: roundTo2(v.OptDiscount * constants.DiscountDisplayScale),
		KdDiscount:  roundTo2(v.KdDiscount * constants.DiscountDisplayScale),
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
