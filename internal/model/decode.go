package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a model family, accepting estimator aliases.
func (f *ModelFamily) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*f = ParseModelFamily(s)
	if *f == FamilyUnknown && strings.TrimSpace(s) != "" {
		return fmt.Errorf("%w: %q (line %d)", ErrUnknownFamily, s, value.Line)
	}
	return nil
}

// UnmarshalYAML decodes a variable type, accepting descriptive aliases.
func (t *VarType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, ok := ParseVarType(s)
	if !ok {
		return fmt.Errorf("unknown variable type %q (line %d)", s, value.Line)
	}
	*t = parsed
	return nil
}

// ParseVarType parses a variable type from its short code or a
// descriptive alias.
func ParseVarType(s string) (VarType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "exogenous", "exog":
		return VarExogenous, true
	case "yend", "endogenous", "endog":
		return VarEndogenous, true
	case "q", "instrument":
		return VarInstrument, true
	case "rho", "wy", "spatial-lag", "spatial_lag":
		return VarSpatialLag, true
	case "lambda", "spatial-error", "spatial_error":
		return VarLambda, true
	case "o", "constant", "const":
		return VarConstant, true
	case "wx", "spatial-lag-x", "spatial_lag_x":
		return VarSpatialLagX, true
	default:
		return "", false
	}
}

// Decode reads a fitted model document. JSON documents are accepted as
// well, being a subset of YAML.
func Decode(r io.Reader) (*FittedModel, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m FittedModel
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode fitted model: empty document")
		}
		return nil, fmt.Errorf("decode fitted model: %w", err)
	}
	m.normalize()
	return &m, nil
}

// DecodeBytes reads a fitted model document from memory.
func DecodeBytes(data []byte) (*FittedModel, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile reads a fitted model document from disk.
func DecodeFile(path string) (*FittedModel, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user on purpose
	if err != nil {
		return nil, fmt.Errorf("open fitted model: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// normalize fills derivable fields left out of the document.
func (m *FittedModel) normalize() {
	if !m.IsMultiEquation() {
		m.Equation.normalize()
		return
	}
	for i, eq := range m.Equations {
		if eq == nil {
			continue
		}
		if eq.ID == "" {
			eq.ID = strconv.Itoa(i + 1)
		}
		eq.normalize()
	}
}

func (e *Equation) normalize() {
	if e.K == 0 {
		e.K = len(e.Parameters)
	}
}
