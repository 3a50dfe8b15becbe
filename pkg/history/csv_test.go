package history

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/model"
)

func importOpts() ImportOptions {
	return ImportOptions{UserID: "alice", Alias: "EcoAlice", Factors: emissions.DefaultFactors()}
}

func TestReadCSV(t *testing.T) {
	input := `date,distance,transport_mode,electricity,lpg,alias,notes
2024-03-01,10,car_petrol,5,1,,commute
2024/03/02,4,Matatu/Bus,0,0,Bus Rider,
2024-03-03 08:15:00,2,Bicycle/Walking,1,,,
not-a-date,1,bus,0,0,,
2024-03-04,1,rocket,0,0,,
2024-03-05,-3,bus,0,0,,
2024-03-06T10:00:00Z,abc,bus,0,0,,
`
	result, err := ReadCSV(strings.NewReader(input), importOpts())
	require.NoError(t, err)

	require.Len(t, result.Entries, 4)
	first := result.Entries[0]
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "alice", first.UserID)
	assert.Equal(t, "EcoAlice", first.Alias)
	assert.Equal(t, "commute", first.Notes)
	assert.InDelta(t, 10*0.192+5*0.18+3.0, first.TotalEmission, 1e-9)

	assert.Equal(t, "2024-03-02", result.Entries[1].Date)
	assert.Equal(t, "Bus Rider", result.Entries[1].Alias)
	assert.Equal(t, emissions.ModeBus, result.Entries[1].TransportMode)
	assert.Equal(t, "2024-03-03", result.Entries[2].Date)
	assert.Equal(t, 0.0, result.Entries[2].LPG)

	other := result.Entries[3]
	assert.Equal(t, "2024-03-04", other.Date)
	assert.Equal(t, emissions.ModeOther, other.TransportMode)
	assert.Equal(t, 1.0, other.Distance)
	assert.Zero(t, other.TotalEmission)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 6, result.Warnings[0].Line)
	assert.Contains(t, result.Warnings[0].Reason, `unknown transport mode "rocket"`)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 5, result.Errors[0].Line)
	assert.Contains(t, result.Errors[0].Reason, "unrecognized date")
	assert.Contains(t, result.Errors[1].Reason, "must not be negative")
	assert.Contains(t, result.Errors[2].Reason, "invalid distance")
}

func TestReadCSV_UnknownModeStillValidated(t *testing.T) {
	input := "date,distance,transport_mode,electricity,lpg\n2024-03-04,-1,tuk-tuk,2,0\n2024-03-05,3,tuk-tuk,2,0\n"

	result, err := ReadCSV(strings.NewReader(input), importOpts())
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	require.Len(t, result.Entries, 1)
	assert.InDelta(t, 2*0.18, result.Entries[0].TotalEmission, 1e-9)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 3, result.Warnings[0].Line)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,distance,notes\n2024-03-01,1,x\n"), importOpts())

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"transport_mode", "electricity", "lpg"}, missing.Columns)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), importOpts())
	var missing *MissingColumnsError
	assert.True(t, errors.As(err, &missing))
}

func TestReadCSV_HeaderCaseAndOrder(t *testing.T) {
	input := "LPG, Electricity ,Transport_Mode,Distance,Date\n0,0,motorbike,10,2024-03-01\n"
	result, err := ReadCSV(strings.NewReader(input), importOpts())
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.InDelta(t, 1.03, result.Entries[0].TotalEmission, 1e-9)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	entries := []model.Entry{
		{ID: "1", UserID: "alice", Alias: "Eco, Alice", Date: "2024-03-01", TransportMode: emissions.ModeCarDiesel,
			Distance: 10, TransportEmission: 1.71, TotalEmission: 1.71, Notes: "a \"quoted\" note"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(ExportColumns, ","), lines[0])
	assert.Contains(t, lines[1], `"Eco, Alice"`)
	assert.Contains(t, lines[1], "car_diesel")

	result, err := ReadCSV(&buf, importOpts())
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "Eco, Alice", result.Entries[0].Alias)
	assert.Equal(t, `a "quoted" note`, result.Entries[0].Notes)
	assert.InDelta(t, 1.71, result.Entries[0].TotalEmission, 1e-9)
}
