package album

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// CompareNatural orders page names the way a reader expects: runs of digits
// compare by value ("page2" before "page10") and whitespace is ignored. When two
// names only differ by the zero padding of a number, the less padded one comes
// first.
func CompareNatural(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	padding := 0

	for {
		for i < len(ra) && unicode.IsSpace(ra[i]) {
			i++
		}
		for j < len(rb) && unicode.IsSpace(rb[j]) {
			j++
		}
		if i == len(ra) || j == len(rb) {
			break
		}

		if isDigit(ra[i]) && isDigit(rb[j]) {
			si, sj := i, j
			for i < len(ra) && isDigit(ra[i]) {
				i++
			}
			for j < len(rb) && isDigit(rb[j]) {
				j++
			}
			na := strings.TrimLeft(string(ra[si:i]), "0")
			nb := strings.TrimLeft(string(rb[sj:j]), "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			if padding == 0 {
				padding = cmp.Compare(i-si, j-sj)
			}
			continue
		}

		if c := cmp.Compare(ra[i], rb[j]); c != 0 {
			return c
		}
		i++
		j++
	}

	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	}
	return padding
}

// SortNatural sorts names in place with CompareNatural. Names that compare equal
// fall back to byte order so the result does not depend on the input order.
func SortNatural(names []string) {
	slices.SortStableFunc(names, func(a, b string) int {
		if c := CompareNatural(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
