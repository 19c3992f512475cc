package emission

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

func TestTransportTotalWithOverrides(t *testing.T) {
	overrides := []Factor{
		{LifecycleStage: "A4", Biogenic: 1.5, NonBiogenic: 0.5},
	}
	reference := []Factor{
		{LifecycleStage: "A1", Biogenic: 99, NonBiogenic: 99},
	}

	total := TransportTotal(100, 2, overrides, reference)

	assert.True(t, total.Available)
	assert.Equal(t, 400.0, total.Kg)
}

func TestTransportTotalOverridesSumAllStages(t *testing.T) {
	// overrides are summed unconditionally, no stage filtering
	overrides := []Factor{
		{LifecycleStage: "A1", Biogenic: 0.1, NonBiogenic: 0.2},
		{LifecycleStage: "A4", Biogenic: 0.3, NonBiogenic: 0.4},
	}

	total := TransportTotal(10, 1, overrides, nil)

	assert.True(t, total.Available)
	assert.Equal(t, 10.0, total.Kg)
}

func TestTransportTotalWithoutOverrides(t *testing.T) {
	reference := []Factor{
		{LifecycleStage: "A1", Biogenic: 0.5, NonBiogenic: 1.0},
		{LifecycleStage: "A4", Biogenic: 0.25, NonBiogenic: 0.25},
	}

	total := TransportTotal(100, 2, nil, reference)

	assert.True(t, total.Available)
	assert.Equal(t, 400.0, total.Kg)
}

func TestEmptyOverrideListFallsBackToReference(t *testing.T) {
	reference := []Factor{
		{LifecycleStage: "A1", Biogenic: 1, NonBiogenic: 1},
	}

	// an empty slice is treated like no overrides entered, not like zero
	total := TransportTotal(5, 2, []Factor{}, reference)

	assert.True(t, total.Available)
	assert.Equal(t, 20.0, total.Kg)
}

func TestTransportTotalNoReferenceNoOverrides(t *testing.T) {
	total := TransportTotal(100, 2, nil, nil)
	assert.False(t, total.Available)
	assert.Equal(t, Placeholder, total.String())
}

func TestEnergyTotal(t *testing.T) {
	reference := []Factor{
		{LifecycleStage: "A3", Biogenic: 0.02, NonBiogenic: 0.4},
	}

	total := EnergyTotal(1000, nil, reference)

	assert.True(t, total.Available)
	assert.Equal(t, 420.0, total.Kg)
}

func TestEnergyTotalRoundsToThreeDecimals(t *testing.T) {
	reference := []Factor{
		{LifecycleStage: "A3", Biogenic: 0.0001, NonBiogenic: 0.0002},
	}

	total := EnergyTotal(3.33, nil, reference)

	assert.True(t, total.Available)
	assert.Equal(t, 0.001, total.Kg)
}

func TestLineItemTotal(t *testing.T) {
	total := LineItemTotal(5, 2.5, workflows.StatusAccepted)

	assert.True(t, total.Available)
	assert.Equal(t, 12.5, total.Kg)
}

func TestLineItemTotalRoundsToTwoDecimals(t *testing.T) {
	total := LineItemTotal(3, 0.333, workflows.StatusAccepted)

	assert.True(t, total.Available)
	assert.Equal(t, 1.0, total.Kg)
}

func TestLineItemTotalGated(t *testing.T) {
	for _, status := range []workflows.SharingStatus{
		workflows.StatusNotRequested,
		workflows.StatusPending,
		workflows.StatusRejected,
	} {
		total := LineItemTotal(5, 2.5, status)
		assert.False(t, total.Available, "status %q must hide the total", status)
		assert.Equal(t, Placeholder, total.String())
	}
}

func TestGateEmptyStatusPassesThrough(t *testing.T) {
	// own-company records carry no sharing status at all
	total := Gate("", Of(42))
	assert.True(t, total.Available)
	assert.Equal(t, 42.0, total.Kg)
}

func TestNonFiniteCollapsesToUnavailable(t *testing.T) {
	assert.False(t, Of(math.NaN()).Available)
	assert.False(t, Of(math.Inf(1)).Available)
	assert.False(t, Of(math.Inf(-1)).Available)

	overrides := []Factor{{LifecycleStage: "A1", Biogenic: math.NaN()}}
	total := TransportTotal(100, 2, overrides, nil)
	assert.False(t, total.Available)
	assert.Equal(t, Placeholder, total.String())
}

func TestSumFactors(t *testing.T) {
	assert.Equal(t, 0.0, SumFactors(nil))
	assert.Equal(t, 4.5, SumFactors([]Factor{
		{Biogenic: 1.5, NonBiogenic: 0.5},
		{Biogenic: 2.0, NonBiogenic: 0.5},
	}))
}

func TestTotalString(t *testing.T) {
	assert.Equal(t, "400", Of(400).String())
	assert.Equal(t, "12.5", Of(12.5).String())
	assert.Equal(t, Placeholder, Unavailable().String())
}
