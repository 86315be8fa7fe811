package rebalance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObject builds a JSON object whose members keep the order in which they
// are added. Exported documents (plans, orders, allocations) rely on it so
// that tickers and fields read in a stable, meaningful order.
//
// The first marshaling error is kept and returned by Bytes; later calls are
// no-ops.
type jsonObject struct {
	buf bytes.Buffer
	n   int
	err error
}

// Field adds a member. A nil value is written as null.
func (o *jsonObject) Field(key string, value any) *jsonObject {
	if o.err != nil {
		return o
	}
	k, err := json.Marshal(key)
	if err != nil {
		o.err = err
		return o
	}
	v, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return o
	}
	if o.n > 0 {
		o.buf.WriteByte(',')
	}
	o.buf.Write(k)
	o.buf.WriteByte(':')
	o.buf.Write(v)
	o.n++
	return o
}

// OmitEmpty adds a member unless value is nil or the zero value of its type.
func (o *jsonObject) OmitEmpty(key string, value any) *jsonObject {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Field(key, value)
}

// Cents adds an amount rounded to two decimals.
func (o *jsonObject) Cents(key string, amount float64) *jsonObject {
	return o.Field(key, roundCents(amount))
}

// Bytes returns the encoded object.
func (o *jsonObject) Bytes() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make([]byte, 0, o.buf.Len()+2)
	out = append(out, '{')
	out = append(out, o.buf.Bytes()...)
	return append(out, '}'), nil
}
