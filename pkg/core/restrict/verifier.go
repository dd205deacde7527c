// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package restrict

import "cmp"

// OutOfRangeError indicates that a value was out of its acceptable
// range, either less than its minimum valid value or greater than its
// maximum valid value, or that the range itself is inverted.
type OutOfRangeError[T cmp.Ordered] struct {
	Value        T
	LessThanMin  bool
	InvalidRange bool
}

// Error implements error interface and returns a string reporting that
// minimum or maximum boundary value was not respected.
func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.InvalidRange:
		return "min is greater than max"
	case e.LessThanMin:
		return "value is less than min"
	default:
		return "value is greater than max"
	}
}

// VerifyRange verifies that value is within the [minb, maxb] boundary,
// inclusive on both ends. A nil boundary value means unbounded on that
// side. This generic helper backs the VALUE_RANGE restriction for both
// integer and float keyvals without duplicating the comparison logic
// per numeric type.
func VerifyRange[T cmp.Ordered](value T, minb, maxb *T) *OutOfRangeError[T] {
	switch {
	case minb != nil && maxb != nil && (*minb) > (*maxb):
		return &OutOfRangeError[T]{InvalidRange: true}
	case minb != nil && value < *minb:
		return &OutOfRangeError[T]{Value: value, LessThanMin: true}
	case maxb != nil && value > *maxb:
		return &OutOfRangeError[T]{Value: value, LessThanMin: false}
	}
	return nil
}
