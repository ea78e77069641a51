package album

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "page2.jpg", b: "page10.jpg", want: -1},
		{a: "page10.jpg", b: "page2.jpg", want: 1},
		{a: "2.jpg", b: "2.jpg", want: 0},
		{a: "1.jpg", b: "01.jpg", want: -1},
		{a: "01.jpg", b: "2.jpg", want: -1},
		{a: "v00f.jpg", b: "v01f.jpg", want: -1},
		{a: " 001b.jpg", b: "001a.jpg", want: 1},
		{a: "a b.jpg", b: "ab.jpg", want: 0},
		{a: "abc", b: "abcd", want: -1},
		{a: "9.jpg", b: "c.jpg", want: -1},
		{a: "", b: "", want: 0},
		{a: "", b: "a", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareNatural(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareNatural(tt.b, tt.a))
		})
	}
}

func TestSortNatural(t *testing.T) {
	names := []string{
		"c.jpg", "10.jpg", "b10.jpg", "2.jpg", "01.jpg", "b2.jpg", "1.jpg",
	}
	SortNatural(names)
	assert.Equal(t, []string{
		"1.jpg", "01.jpg", "2.jpg", "10.jpg", "b2.jpg", "b10.jpg", "c.jpg",
	}, names)
}

func TestSortNaturalIsDeterministic(t *testing.T) {
	a := []string{"x 1.png", "x1.png"}
	b := []string{"x1.png", "x 1.png"}
	SortNatural(a)
	SortNatural(b)
	assert.Equal(t, a, b)
}
