// Package pgio is the Postgres I/O layer: a generic nullable-value wrapper
// grounded on the userver IsNullable<T>/GetSetNull<T> trait pair, and a
// connection pool built on database/sql with the lib/pq driver, playing the
// role the teacher fills with a MySQL-backed database/sql connection in
// db/srv and dbclnt — the same standard-library interface, a different
// third-party driver underneath.
package pgio

import (
	"database/sql/driver"
	"fmt"
)

// Nullable wraps a column value that may be SQL NULL, the Go rendering of
// GetSetNull<T>::IsNull/SetNull/SetDefault: instead of trait specializations
// dispatched at compile time, a single generic struct carries the validity
// bit alongside the value, and implements sql.Scanner/driver.Valuer so it
// plugs directly into database/sql query results and arguments.
type Nullable[T any] struct {
	Val   T
	Valid bool
}

// Of wraps a non-null value.
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Val: v, Valid: true}
}

// Null returns a null value of type T.
func Null[T any]() Nullable[T] {
	return Nullable[T]{}
}

// IsNull reports whether this value is SQL NULL.
func (n Nullable[T]) IsNull() bool {
	return !n.Valid
}

// Get returns the underlying value and whether it was present, the
// GetSetNull<T>::GetValue analogue.
func (n Nullable[T]) Get() (T, bool) {
	return n.Val, n.Valid
}

// Scan implements sql.Scanner.
func (n *Nullable[T]) Scan(src interface{}) error {
	if src == nil {
		var zero T
		n.Val = zero
		n.Valid = false
		return nil
	}
	v, ok := src.(T)
	if !ok {
		return fmt.Errorf("pgio: cannot scan %T into Nullable[%T]", src, n.Val)
	}
	n.Val = v
	n.Valid = true
	return nil
}

// Value implements driver.Valuer. A raw Go value of type T is not in
// general one of the types driver.Value permits (int64, float64, bool,
// []byte, string, time.Time, nil); ConvertValue applies the same
// reflection-based narrowing database/sql itself uses for a Valuer's
// result (e.g. any integer kind to int64, any float kind to float64),
// so a Nullable[int32] or Nullable[uint] round-trips correctly instead
// of failing at the driver with "non-Value type ... returned from Value".
func (n Nullable[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(n.Val)
}
