package emission

import (
	"math"
	"strconv"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// Placeholder is rendered instead of a number when a total cannot be resolved.
const Placeholder = "—"

// Factor is one lifecycle stage's CO2e coefficient pair, either from a
// reference catalog or supplied by a user as an override.
type Factor struct {
	LifecycleStage string  `json:"lifecycle_stage"`
	Biogenic       float64 `json:"co_2_emission_factor_biogenic"`
	NonBiogenic    float64 `json:"co_2_emission_factor_non_biogenic"`
}

// Total is a resolved emission figure in kg CO2e. Available is false when the
// figure cannot be shown, either because the sharing gate blocks it or because
// the inputs do not produce a finite number.
type Total struct {
	Available bool    `json:"available"`
	Kg        float64 `json:"kg_co2e"`
}

// Unavailable returns the sentinel total.
func Unavailable() Total {
	return Total{}
}

// Of wraps a finite kg CO2e figure; non-finite input collapses to unavailable.
func Of(kg float64) Total {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Unavailable()
	}
	return Total{Available: true, Kg: kg}
}

// String renders the total for display, using the placeholder when unavailable.
func (t Total) String() string {
	if !t.Available {
		return Placeholder
	}
	return strconv.FormatFloat(t.Kg, 'f', -1, 64)
}

// SumFactors sums biogenic + non-biogenic coefficients across every entry.
// Entries are not filtered by lifecycle stage: all supplied factors count.
func SumFactors(factors []Factor) float64 {
	var sum float64
	for _, f := range factors {
		sum += f.Biogenic + f.NonBiogenic
	}
	return sum
}

// factorSum resolves the per-unit emission factor for a record. A non-empty
// override list fully replaces the reference factors, no blending. An empty
// override slice behaves exactly like no overrides at all.
func factorSum(overrides, reference []Factor) (float64, bool) {
	if len(overrides) > 0 {
		return SumFactors(overrides), true
	}
	if len(reference) == 0 {
		return 0, false
	}
	return SumFactors(reference), true
}

// TransportTotal computes distance * weight * factor for one transport leg,
// rounded to 3 decimals.
func TransportTotal(distance, weight float64, overrides, reference []Factor) Total {
	factor, ok := factorSum(overrides, reference)
	if !ok {
		return Unavailable()
	}
	return round(Of(distance*weight*factor), 3)
}

// EnergyTotal computes energy_consumption * factor for one production energy
// record, rounded to 3 decimals.
func EnergyTotal(consumption float64, overrides, reference []Factor) Total {
	factor, ok := factorSum(overrides, reference)
	if !ok {
		return Unavailable()
	}
	return round(Of(consumption*factor), 3)
}

// LineItemTotal computes quantity * the supplied product's emission_total for
// a BOM line, rounded to 2 decimals. The product total is already per
// reference unit, so no further factor lookup happens here. The sharing gate
// is checked first: anything other than Accepted hides the figure.
func LineItemTotal(quantity, productEmissionTotal float64, status workflows.SharingStatus) Total {
	return Gate(status, round(Of(quantity*productEmissionTotal), 2))
}

// Gate applies the sharing-gate short-circuit. An empty status means the gate
// does not apply to this record (own-company data).
func Gate(status workflows.SharingStatus, total Total) Total {
	if status != "" && status != workflows.StatusAccepted {
		return Unavailable()
	}
	return total
}

// Round2 rounds to 2 decimals, the BOM and report display precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimals, the emission record display precision.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round(t Total, places int) Total {
	if !t.Available {
		return t
	}
	switch places {
	case 2:
		t.Kg = Round2(t.Kg)
	case 3:
		t.Kg = Round3(t.Kg)
	}
	return t
}
