package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost represents a parsed mana cost: a generic component plus per-type
// colored pips. Costs are parsed once at catalog load, never at runtime.
type Cost struct {
	Generic int
	Colored map[Type]int
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string such as "{2}{G}" or "{W}{W}{1}".
// Supported symbols are generic numbers and the five colors plus {C};
// anything else (X, hybrid, phyrexian) is rejected.
func ParseCost(costStr string) (Cost, error) {
	cost := Cost{Colored: make(map[Type]int)}
	if strings.TrimSpace(costStr) == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return Cost{}, fmt.Errorf("malformed mana cost %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "W":
			cost.Colored[White]++
		case "U":
			cost.Colored[Blue]++
		case "B":
			cost.Colored[Black]++
		case "R":
			cost.Colored[Red]++
		case "G":
			cost.Colored[Green]++
		case "C":
			cost.Colored[Colorless]++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return Cost{}, fmt.Errorf("unsupported mana symbol {%s}", symbol)
			}
			cost.Generic += num
		}
	}
	return cost, nil
}

// MustParseCost parses a cost and panics on error. For static catalog data.
func MustParseCost(costStr string) Cost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// AddGeneric returns a copy of the cost with extra generic mana added.
// Command tax is applied this way: base cost plus 2 generic per prior death.
func (c Cost) AddGeneric(amount int) Cost {
	out := Cost{Generic: c.Generic + amount, Colored: make(map[Type]int, len(c.Colored))}
	for t, n := range c.Colored {
		out.Colored[t] = n
	}
	return out
}

// Value returns the total mana value (converted mana cost).
func (c Cost) Value() int {
	total := c.Generic
	for _, n := range c.Colored {
		total += n
	}
	return total
}

// String renders the cost in symbol notation, e.g. "{3}{G}{G}".
func (c Cost) String() string {
	var b strings.Builder
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for _, t := range Types {
		for i := 0; i < c.Colored[t]; i++ {
			fmt.Fprintf(&b, "{%s}", t.Symbol())
		}
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
