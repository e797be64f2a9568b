package iterm2img

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Unit is a unit of measure for inline image sizes.
type Unit int

const (
	// UnitAuto lets the terminal pick a size; the numeric value is ignored.
	UnitAuto Unit = iota
	// UnitCells measures in character cells (no suffix on the wire).
	UnitCells
	// UnitPixels measures in device pixels ("px" suffix).
	UnitPixels
	// UnitPercent measures as a percentage of the available space ("%" suffix).
	UnitPercent
)

// String returns the CLI spelling of the unit.
func (u Unit) String() string {
	switch u {
	case UnitCells:
		return "cells"
	case UnitPixels:
		return "px"
	case UnitPercent:
		return "percent"
	case UnitAuto:
		return "auto"
	}
	return "unknown"
}

func (u Unit) suffix() string {
	switch u {
	case UnitPixels:
		return "px"
	case UnitPercent:
		return "%"
	}
	return ""
}

// ParseUnit maps a textual unit spelling to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "cells", "":
		return UnitCells, nil
	case "px", "pixels":
		return UnitPixels, nil
	case "percent", "%":
		return UnitPercent, nil
	case "auto":
		return UnitAuto, nil
	}
	return UnitAuto, errors.Errorf("unknown unit %q", s)
}

// Dimension is a quantity with a unit of measure describing a displayed
// width or height. The zero value is automatic sizing.
type Dimension struct {
	Value float64
	Unit  Unit
}

// AutoDim returns the automatic dimension.
func AutoDim() Dimension { return Dimension{Unit: UnitAuto} }

// Px returns an absolute pixel dimension.
func Px(v float64) Dimension { return Dimension{Value: v, Unit: UnitPixels} }

// Cells returns a character-cell dimension.
func Cells(v float64) Dimension { return Dimension{Value: v, Unit: UnitCells} }

// Percent returns a percentage-of-available-space dimension.
func Percent(v float64) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// String renders the dimension to the exact textual form the protocol
// expects. Automatic dimensions render as the literal word "auto" no matter
// the value; every other unit renders the value in its shortest decimal
// form followed by the unit suffix.
func (d Dimension) String() string {
	if d.Unit == UnitAuto {
		return "auto"
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + d.Unit.suffix()
}
