package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// jsonFloat is a float64 that survives a JSON round trip when it is not
// finite. NaN and the infinities are written as the strings the text report
// prints for them.
type jsonFloat float64

// MarshalJSON implements json.Marshaler.
func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "nan":
			*f = jsonFloat(math.NaN())
		case "inf":
			*f = jsonFloat(math.Inf(1))
		case "-inf":
			*f = jsonFloat(math.Inf(-1))
		default:
			return fmt.Errorf("invalid number %q", s)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r OutputRow) MarshalJSON() ([]byte, error) {
	type plain OutputRow
	return json.Marshal(struct {
		plain
		Coefficient jsonFloat  `json:"coefficients"`
		StdErr      *jsonFloat `json:"std_err"`
		Statistic   *jsonFloat `json:"zt_stat"`
		PValue      *jsonFloat `json:"prob"`
	}{
		plain:       plain(r),
		Coefficient: jsonFloat(r.Coefficient),
		StdErr:      (*jsonFloat)(r.StdErr),
		Statistic:   (*jsonFloat)(r.Statistic),
		PValue:      (*jsonFloat)(r.PValue),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *OutputRow) UnmarshalJSON(data []byte) error {
	type plain OutputRow
	aux := struct {
		*plain
		Coefficient jsonFloat  `json:"coefficients"`
		StdErr      *jsonFloat `json:"std_err"`
		Statistic   *jsonFloat `json:"zt_stat"`
		PValue      *jsonFloat `json:"prob"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Coefficient = float64(aux.Coefficient)
	r.StdErr = (*float64)(aux.StdErr)
	r.Statistic = (*float64)(aux.Statistic)
	r.PValue = (*float64)(aux.PValue)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r ChowRow) MarshalJSON() ([]byte, error) {
	type plain ChowRow
	return json.Marshal(struct {
		plain
		Value  jsonFloat `json:"value"`
		PValue jsonFloat `json:"prob"`
	}{
		plain:  plain(r),
		Value:  jsonFloat(r.Value),
		PValue: jsonFloat(r.PValue),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ChowRow) UnmarshalJSON(data []byte) error {
	type plain ChowRow
	aux := struct {
		*plain
		Value  jsonFloat `json:"value"`
		PValue jsonFloat `json:"prob"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Value = float64(aux.Value)
	r.PValue = float64(aux.PValue)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s EquationSummary) MarshalJSON() ([]byte, error) {
	type plain EquationSummary
	return json.Marshal(struct {
		plain
		SpatialPseudoR2 *jsonFloat `json:"spatial_pseudo_r2,omitempty"`
	}{
		plain:           plain(s),
		SpatialPseudoR2: (*jsonFloat)(s.SpatialPseudoR2),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *EquationSummary) UnmarshalJSON(data []byte) error {
	type plain EquationSummary
	aux := struct {
		*plain
		SpatialPseudoR2 *jsonFloat `json:"spatial_pseudo_r2,omitempty"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.SpatialPseudoR2 = (*float64)(aux.SpatialPseudoR2)
	return nil
}
