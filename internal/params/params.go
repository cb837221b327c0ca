package params

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultNames are the experiment dimensions encoded in the output tree,
// e.g. out/quality_50_bits_0_block_16/3. The last one is the repetition axis.
var DefaultNames = []string{"quality", "bits", "block", "split"}

// Param is a single named integer taken from an experiment path.
type Param struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Params is an ordered list of experiment parameters.
type Params []Param

// DimensionError reports a path that does not encode the expected number of integers.
type DimensionError struct {
	Path     string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d values, got %d", e.Path, e.Expected, e.Got)
}

// Extract returns every maximal run of ASCII digits in s, left to right.
func Extract(s string) ([]int, error) {
	var values []int
	start := -1
	for i := 0; i <= len(s); i++ {
		isDigit := i < len(s) && s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			v, err := strconv.Atoi(s[start:i])
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q in %s: %w", s[start:i], s, err)
			}
			values = append(values, v)
			start = -1
		}
	}
	return values, nil
}

// Parse extracts the integers in s and names them positionally.
// It fails unless s holds exactly len(names) digit runs.
func Parse(s string, names []string) (Params, error) {
	values, err := Extract(s)
	if err != nil {
		return nil, err
	}
	if len(values) != len(names) {
		return nil, &DimensionError{Path: s, Expected: len(names), Got: len(values)}
	}

	p := make(Params, len(values))
	for i, v := range values {
		p[i] = Param{Name: names[i], Value: v}
	}
	return p, nil
}

// Values returns the parameter values in order.
func (p Params) Values() []int {
	values := make([]int, len(p))
	for i, param := range p {
		values[i] = param.Value
	}
	return values
}

// Get returns the value of the named parameter.
func (p Params) Get(name string) (int, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return 0, false
}

// Prefix returns the first n parameters.
func (p Params) Prefix(n int) Params {
	if n > len(p) {
		n = len(p)
	}
	return p[:n:n]
}

// Compare orders p and q lexicographically by value.
// A shorter list that is a prefix of the longer one sorts first.
func (p Params) Compare(q Params) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i].Value != q[i].Value {
			if p[i].Value < q[i].Value {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

// Equal reports whether p and q hold the same values in the same order.
func (p Params) Equal(q Params) bool {
	return len(p) == len(q) && p.Compare(q) == 0
}

// String renders the values as "50/0/16/3".
func (p Params) String() string {
	parts := make([]string, len(p))
	for i, param := range p {
		parts[i] = strconv.Itoa(param.Value)
	}
	return strings.Join(parts, "/")
}
