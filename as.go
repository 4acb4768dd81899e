package uregex

import "fmt"

// As projects the converted value recorded in a capture slot as type T with
// a plain type assertion. It returns a *ValueError when the slot holds no
// value or a value of another type.
//
// Slots record values through builder.Convert transforms and external
// components; plain captures record spans only, so As fails for them.
//
// Example:
//
//	n := builder.NewRef("n")
//	p, _ := uregex.CompileExpr(builder.Convert(
//	    builder.OneOrMore(builder.Digit()), n, parseInt,
//	))
//	m, _ := p.FirstMatchString("42")
//	v, err := uregex.As[int](m, n.Slot()) // 42
func As[T any](m *Match, slot int) (T, error) {
	var zero T
	raw, ok := m.Value(slot)
	if !ok {
		return zero, &ValueError{Slot: slot, Want: fmt.Sprintf("%T", zero), Got: "no value"}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &ValueError{Slot: slot, Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("%T", raw)}
	}
	return v, nil
}

// AsNamed is As with the slot addressed by capture name.
func AsNamed[T any](m *Match, name string) (T, error) {
	for i, n := range m.Names() {
		if n == name && i > 0 {
			return As[T](m, i)
		}
	}
	var zero T
	return zero, &ValueError{Slot: -1, Want: fmt.Sprintf("%T", zero), Got: fmt.Sprintf("no slot named %q", name)}
}
