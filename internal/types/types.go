// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils all import types without depending on
// each other.
package types

// Person is the single record managed by the application.
//
// ID is assigned by the store when the record is created and is never
// chosen by the client. The validate tags are checked by
// go-playground/validator before anything reaches the store.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"   validate:"required"`
	Age    int    `json:"age"    validate:"gte=0"`
	Gender string `json:"gender" validate:"required"`
	Mobile string `json:"mobile" validate:"required"`
}

// Equal reports whether p and o carry the same attribute values.
// The ID is not compared.
func (p Person) Equal(o Person) bool {
	return p.Name == o.Name &&
		p.Age == o.Age &&
		p.Gender == o.Gender &&
		p.Mobile == o.Mobile
}
