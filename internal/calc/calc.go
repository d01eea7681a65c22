// Package calc implements the electrical design pipeline: room load
// aggregation, demand diversification, circuit synthesis, voltage-drop
// analysis and grounding sizing.
//
// Every stage is a pure function over its inputs and read-only reference
// tables. Stages never mutate their arguments and never fail for missing
// reference data; they fall back and report an observation instead.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"elecdesign/internal/models"

	"github.com/shopspring/decimal"
)

const eps = 1e-9

// approximate marks observations where a table gap was bridged with a default
// or the largest entry.
const approximate = " (approximation, needs engineering review)"

// ErrInvalidInput marks malformed requests.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Round2 rounds half away from zero to two decimals. Non-finite values are
// returned unchanged.
func Round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// LineCurrent converts apparent power to line current.
func LineCurrent(va, voltage float64, phases int) float64 {
	if phases == 3 {
		return va / (math.Sqrt(3) * voltage)
	}
	return va / voltage
}

// branchSupply returns the phase count and voltage a branch circuit with the
// given number of poles runs at. One-pole branches on a three-phase supply are
// wired line to neutral; zero poles means the supply itself.
func branchSupply(sys models.SystemConfig, poles int) (int, float64) {
	if sys.Phases == 3 && poles == 1 {
		return 1, sys.VoltageV / math.Sqrt(3)
	}
	return sys.Phases, sys.VoltageV
}

// phaseFactor is the conductor-length multiplier of the drop formula.
func phaseFactor(phases int) float64 {
	if phases == 3 {
		return math.Sqrt(3)
	}
	return 2
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
