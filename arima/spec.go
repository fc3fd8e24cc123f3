package arima

import (
	"fmt"
	"strings"
)

// Method selects the estimation objective.
type Method int

const (
	// MethodCSSML seeds exact maximum likelihood with conditional-sum-of-squares estimates.
	MethodCSSML Method = iota
	// MethodML maximises the exact Gaussian likelihood.
	MethodML
	// MethodCSS minimises the conditional sum of squares.
	MethodCSS
)

func (m Method) String() string {
	switch m {
	case MethodML:
		return "ML"
	case MethodCSS:
		return "CSS"
	default:
		return "CSS-ML"
	}
}

// ParseMethod parses "CSS-ML", "ML" or "CSS" (case-insensitive). The empty
// string selects the default CSS-ML.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CSS-ML", "DEFAULT":
		return MethodCSSML, nil
	case "ML":
		return MethodML, nil
	case "CSS":
		return MethodCSS, nil
	}
	return MethodCSSML, fmt.Errorf("%w: unknown method %q", ErrInvalidSpec, s)
}

// UnmarshalText lets config files name the method.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText writes the method label.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Spec describes one candidate ARIMA(p,d,q) model.
//
// Coefficients are ordered ar1..arP, ma1..maQ, then an intercept when D is 0,
// then the trend coefficient when Trend is set. Fixed, when non-nil, has one
// entry per coefficient; true constrains that coefficient to zero.
type Spec struct {
	P      int
	D      int
	Q      int
	Trend  bool
	Fixed  []bool
	Method Method
}

// HasIntercept reports whether the model estimates a mean.
func (s Spec) HasIntercept() bool {
	return s.D == 0
}

// NumCoefficients returns the length of the full coefficient vector.
func (s Spec) NumCoefficients() int {
	k := s.P + s.Q
	if s.HasIntercept() {
		k++
	}
	if s.Trend {
		k++
	}
	return k
}

// NumFree returns the number of coefficients that are estimated.
func (s Spec) NumFree() int {
	k := s.NumCoefficients()
	for _, fixed := range s.Fixed {
		if fixed {
			k--
		}
	}
	return k
}

// IsFree reports whether coefficient i is estimated.
func (s Spec) IsFree(i int) bool {
	return s.Fixed == nil || !s.Fixed[i]
}

// CoefficientNames returns the names of the full coefficient vector.
func (s Spec) CoefficientNames() []string {
	names := make([]string, 0, s.NumCoefficients())
	for i := 1; i <= s.P; i++ {
		names = append(names, fmt.Sprintf("ar%d", i))
	}
	for i := 1; i <= s.Q; i++ {
		names = append(names, fmt.Sprintf("ma%d", i))
	}
	if s.HasIntercept() {
		names = append(names, "intercept")
	}
	if s.Trend {
		names = append(names, "trend")
	}
	return names
}

// Label returns a unique, human readable name such as
// "ARIMA(2,1,2)+trend[ar1=0,ma2=0]".
func (s Spec) Label() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ARIMA(%d,%d,%d)", s.P, s.D, s.Q)
	if s.Trend {
		b.WriteString("+trend")
	}

	var fixed []string
	names := s.CoefficientNames()
	for i, f := range s.Fixed {
		if f && i < len(names) {
			fixed = append(fixed, names[i]+"=0")
		}
	}
	if len(fixed) > 0 {
		b.WriteString("[" + strings.Join(fixed, ",") + "]")
	}
	return b.String()
}

// WithFixed returns a copy of s with the given mask.
func (s Spec) WithFixed(mask []bool) Spec {
	out := s
	if mask != nil {
		out.Fixed = append([]bool(nil), mask...)
	} else {
		out.Fixed = nil
	}
	return out
}

// Validate checks orders and mask length.
func (s Spec) Validate() error {
	switch {
	case s.P < 0 || s.D < 0 || s.Q < 0:
		return fmt.Errorf("%w: negative order in (%d,%d,%d)", ErrInvalidSpec, s.P, s.D, s.Q)
	case s.Trend && s.D > 1:
		return fmt.Errorf("%w: a linear trend vanishes after %d differences", ErrInvalidSpec, s.D)
	case s.Fixed != nil && len(s.Fixed) != s.NumCoefficients():
		return fmt.Errorf("%w: %s has %d coefficients, mask has %d",
			ErrMaskLength, s.Label(), s.NumCoefficients(), len(s.Fixed))
	}
	return nil
}
