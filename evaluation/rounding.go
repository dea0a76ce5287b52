package evaluation

import (
	"math"

	"github.com/Scalingo/sclng-language-stats/model"
)

// Round round a value to the given number of decimals, half away from zero
// precision is clamped between 0 and model.MaxPrecision
func Round(value float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}

	if precision > model.MaxPrecision {
		precision = model.MaxPrecision
	}

	factor := math.Pow(10, float64(precision))
	return math.Round(value*factor) / factor
}
