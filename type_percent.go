package folio

import "fmt"

// Percent is a percentage value, where 10 means 10%. ROI and daily profit
// and loss series are expressed in it.
type Percent float64

// Equal compares two percentages within a fixed precision, since they come
// out of float arithmetic.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString renders the percentage with an explicit sign; exactly zero
// renders as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
