package packaging

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a locale-tolerant decimal: comma or dot separator
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

// matchLine applies the candidate pattern to one receipt line
// The quantity is kept non-negative; direction lives on the total's sign
func (v *Vocab) matchLine(line string) (Entry, bool) {
	m := v.Line.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	groups := map[string]string{}
	for i, name := range v.Line.SubexpNames() {
		if name != "" && i < len(m) {
			groups[name] = m[i]
		}
	}

	qty, err := parseAmount(groups["qty"])
	if err != nil {
		return Entry{}, false
	}
	price, err := parseAmount(groups["price"])
	if err != nil {
		return Entry{}, false
	}
	total, err := parseAmount(groups["total"])
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Name:      strings.TrimSpace(groups["name"]),
		Quantity:  qty.Abs(),
		UnitValue: price,
		Total:     total,
		Source:    SourceHeuristic,
	}, true
}
