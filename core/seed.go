package core

import (
	"strconv"

	"github.com/sarchlab/ladderlogic/ladder"
)

// SeedVariables declares every variable the network refers to that the
// store does not hold yet. Contact and coil variables become BOOL false.
// Math and comparison operands that are not literals become INT 0. Existing
// variables are left alone.
func SeedVariables(net *ladder.Network, vars *VariableStore) {
	for _, el := range net.Elements {
		switch {
		case el.Type.IsContact(), el.Type.IsCoil():
			if name := el.Variable(); name != "" {
				vars.Declare(name, Bool, BoolValue(false))
			}
		case el.Type.IsArithmetic(), el.Type.IsComparison():
			op := el.Operand()
			if op == "" || isLiteral(op) {
				continue
			}
			vars.Declare(op, Int, NumberValue(0))
		}
	}
}

func isLiteral(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	_, ok := ParseTimeLiteral(s)
	return ok
}
