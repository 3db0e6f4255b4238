// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"fmt"
	"math"
)

// Unset is the text shown for a value that was never set.
const Unset = "--"

type (
	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]

	// VarInt is a type alias for Variable[int], representing an integer value with initialization tracking.
	VarInt = Variable[int]
)

// Variable represents a generic type wrapper that holds a value and tracks its initialization state.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// FromLookup turns a (value, ok) lookup result into a Variable that is only set if ok is true.
func FromLookup[T any](value T, ok bool) Variable[T] {
	if !ok {
		return Variable[T]{}
	}
	return NewVariable(value)
}

// Finite returns a set VarFloat64 for finite values and an unset one for NaN and ±Inf.
func Finite(value float64, ok bool) VarFloat64 {
	return FromLookup(value, ok && !math.IsNaN(value) && !math.IsInf(value, 0))
}

// Reset clears the value of the Variable and marks it as uninitialized.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value retrieves the current value stored in the Variable.
func (v *Variable[T]) Value() T {
	return v.value
}

// Set assigns the provided value to the Variable and marks it as initialized.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v *Variable[T]) IsSet() bool {
	return v.isset
}

// Format renders a set value with fn and returns Unset otherwise.
func (v Variable[T]) Format(fn func(T) string) string {
	if !v.isset {
		return Unset
	}
	return fn(v.value)
}

// String returns a string representation of the Variable. If uninitialized, it returns Unset.
func (v Variable[T]) String() string {
	if !v.isset {
		return Unset
	}
	return fmt.Sprint(v.value)
}
