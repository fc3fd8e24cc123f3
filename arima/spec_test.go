package arima

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecCoefficients(t *testing.T) {
	spec := Spec{P: 2, D: 1, Q: 1}
	assert.Equal(t, []string{"ar1", "ar2", "ma1"}, spec.CoefficientNames())
	assert.Equal(t, 3, spec.NumCoefficients())
	assert.Equal(t, 3, spec.NumFree())
	assert.Equal(t, "ARIMA(2,1,1)", spec.Label())

	level := Spec{P: 1, D: 0, Q: 0, Trend: true}
	assert.Equal(t, []string{"ar1", "intercept", "trend"}, level.CoefficientNames())
	assert.Equal(t, "ARIMA(1,0,0)+trend", level.Label())

	pure := Spec{D: 1}
	assert.Equal(t, 0, pure.NumCoefficients())
	assert.Empty(t, pure.CoefficientNames())
}

func TestSpecFixedMask(t *testing.T) {
	base := Spec{P: 2, D: 1, Q: 2}
	restricted := base.WithFixed([]bool{false, true, false, true})

	require.NoError(t, restricted.Validate())
	assert.Equal(t, 2, restricted.NumFree())
	assert.False(t, restricted.IsFree(1))
	assert.True(t, restricted.IsFree(2))
	assert.Equal(t, "ARIMA(2,1,2)[ar2=0,ma2=0]", restricted.Label())
	assert.Nil(t, base.Fixed)

	bad := base.WithFixed([]bool{true})
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaskLength))
}

func TestSpecValidate(t *testing.T) {
	assert.ErrorIs(t, Spec{P: -1}.Validate(), ErrInvalidSpec)
	assert.ErrorIs(t, Spec{D: 2, Trend: true}.Validate(), ErrInvalidSpec)
	assert.NoError(t, Spec{P: 5, D: 1, Q: 5, Trend: true}.Validate())
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"": MethodCSSML, "css-ml": MethodCSSML, "ML": MethodML, "css": MethodCSS} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMethod("yule-walker")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	var m Method
	require.NoError(t, m.UnmarshalText([]byte("ML")))
	assert.Equal(t, MethodML, m)
	text, _ := m.MarshalText()
	assert.Equal(t, "ML", string(text))
}
