// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package utils

type empty struct{}

// HashSet is a set of comparable values; the zero value is not usable, use NewHashSet.
type HashSet[T comparable] map[T]empty

func NewHashSet[T comparable](elems ...T) HashSet[T] {
	s := make(HashSet[T], len(elems))
	for _, elem := range elems {
		s.Add(elem)
	}
	return s
}

func (s HashSet[T]) Has(elem T) bool {
	_, ok := s[elem]
	return ok
}

func (s HashSet[T]) Add(elem T) {
	s[elem] = empty{}
}
