package models

// User is the profile returned by the identity service. It is cached
// verbatim and only ever replaced wholesale, never mutated field by field.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}
