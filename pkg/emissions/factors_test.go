package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactorsAreIndependentCopies(t *testing.T) {
	a := DefaultFactors()
	a.Transport[ModeCarPetrol] = 99

	b := DefaultFactors()
	assert.Equal(t, 0.192, b.TransportFactor(ModeCarPetrol))
}

func TestWithOverrides(t *testing.T) {
	base := DefaultFactors()

	f, err := base.WithOverrides(map[string]float64{"Car (Diesel)": 0.2, "bus": 0.05}, 0.3, DefaultLPGFactor)
	require.NoError(t, err)
	assert.Equal(t, 0.2, f.TransportFactor(ModeCarDiesel))
	assert.Equal(t, 0.05, f.TransportFactor(ModeBus))
	assert.Equal(t, 0.192, f.TransportFactor(ModeCarPetrol))
	assert.Equal(t, 0.3, f.Electricity)
	assert.Equal(t, DefaultLPGFactor, f.LPG)

	// base is untouched
	assert.Equal(t, 0.171, base.TransportFactor(ModeCarDiesel))

	f, err = base.WithOverrides(nil, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, f.Electricity)
	assert.Zero(t, f.LPG)
	assert.Zero(t, f.Compute(Activity{Mode: ModeBicycleWalking, ElectricityKWh: 5, LPGKg: 2}).Total)

	_, err = base.WithOverrides(map[string]float64{"hovercraft": 1}, 0, 0)
	assert.Error(t, err)

	_, err = base.WithOverrides(map[string]float64{"bus": -1}, 0, 0)
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	rows := DefaultFactors().Table()
	require.Len(t, rows, 5)
	assert.Equal(t, ModeCarPetrol, rows[0].Mode)
	assert.Equal(t, "Car (Petrol)", rows[0].Label)
	assert.Equal(t, 0.0, rows[4].Factor)
	for _, row := range rows {
		assert.NotEqual(t, ModeOther, row.Mode)
	}
	assert.Zero(t, DefaultFactors().TransportFactor(ModeOther))
}
