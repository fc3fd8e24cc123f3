package selection

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/arimaselect/arima"
)

func TestEvaluateRestrictions(t *testing.T) {
	base := arima.Spec{P: 2, D: 1, Q: 2}
	masks := [][]bool{
		{false, true, false, false},
		{true, true, true, false},
	}

	report, err := EvaluateRestrictions(testSeries(100), base, masks, &fakeEstimator{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ARIMA(2,1,2)", "ARIMA(2,1,2)[ar2=0]", "ARIMA(2,1,2)[ar1=0,ar2=0,ma1=0]"}, report.Labels)
	require.Len(t, report.ByAIC, 3)
	require.Len(t, report.ByBIC, 3)

	byAIC, byBIC := report.Ranked()
	assert.Equal(t, "ARIMA(2,1,2)", byAIC[0])
	assert.Equal(t, "ARIMA(2,1,2)[ar1=0,ar2=0,ma1=0]", byBIC[0])

	lean := report.Results["ARIMA(2,1,2)[ar1=0,ar2=0,ma1=0]"]
	require.NotNil(t, lean)
	assert.Equal(t, 1, lean.K)
	require.Len(t, lean.Coefficients, 1)
	assert.Equal(t, "ma2", lean.Coefficients[0].Name)
}

func TestEvaluateRestrictionsMaskLength(t *testing.T) {
	est := &fakeEstimator{}
	_, err := EvaluateRestrictions(testSeries(50), arima.Spec{P: 1, D: 1, Q: 1}, [][]bool{{true}}, est)
	assert.ErrorIs(t, err, ErrMaskLength)
	assert.Equal(t, int32(0), est.calls.Load())
}

func TestEvaluateRestrictionsDuplicateMask(t *testing.T) {
	est := &fakeEstimator{}
	masks := [][]bool{{true, false}, {true, false}}
	_, err := EvaluateRestrictions(testSeries(50), arima.Spec{P: 1, D: 1, Q: 1}, masks, est)
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = EvaluateRestrictions(testSeries(50), arima.Spec{P: 1, D: 1, Q: 1}, [][]bool{{false, false}}, est)
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Equal(t, int32(0), est.calls.Load())
}

func TestEvaluateRestrictionsRecordsFailure(t *testing.T) {
	est := &fakeEstimator{fail: map[string]bool{"ARIMA(1,1,1)[ma1=0]": true}}
	report, err := EvaluateRestrictions(testSeries(50), arima.Spec{P: 1, D: 1, Q: 1},
		[][]bool{{false, true}, {true, false}}, est)
	require.NoError(t, err)

	assert.Len(t, report.Results, 2)
	assert.Contains(t, report.Failures, "ARIMA(1,1,1)[ma1=0]")
	assert.Len(t, report.ByAIC, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteNested(&buf, report))
	assert.Contains(t, buf.String(), "ranked by BIC")
	assert.Contains(t, buf.String(), "Failed candidates (1)")
}

func TestDropOneMasks(t *testing.T) {
	masks := DropOneMasks(arima.Spec{P: 1, D: 0, Q: 1})
	require.Len(t, masks, 3)
	assert.Equal(t, []bool{false, true, false}, masks[1])

	assert.Empty(t, DropOneMasks(arima.Spec{D: 1}))
}
