package domain

import (
	"encoding/json"
	"strconv"
)

// Role is the canonical authorization tag. Every role comparison in the
// system goes through Normalize first; the raw representation is never
// compared directly.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleCashier Role = "CASHIER"
)

// numericRoles maps the legacy numeric role codes still present in older
// records and tokens to their canonical tags.
var numericRoles = map[int]Role{
	1: RoleAdmin,
	2: RolePatient,
	3: RoleDoctor,
	4: RoleCashier,
}

// RawRole is a role as received from the outside: either a string tag or a
// legacy numeric code. API payloads and JWT claims may carry either shape.
type RawRole struct {
	tag    string
	code   int
	isCode bool
}

// RoleFromString wraps a string role tag.
func RoleFromString(tag string) RawRole {
	return RawRole{tag: tag}
}

// RoleFromCode wraps a legacy numeric role code.
func RoleFromCode(code int) RawRole {
	return RawRole{code: code, isCode: true}
}

// IsZero reports whether no role value was provided at all.
func (r RawRole) IsZero() bool {
	return !r.isCode && r.tag == ""
}

// Normalize maps a raw role to its canonical tag.
//
// String representations pass through unchanged, even when they are not part
// of the canonical set. Numeric codes are resolved against the legacy table;
// unknown codes and absent values report ok=false.
func (r RawRole) Normalize() (Role, bool) {
	if r.isCode {
		role, ok := numericRoles[r.code]
		return role, ok
	}
	if r.tag == "" {
		return "", false
	}
	return Role(r.tag), true
}

// Raw returns the underlying representation: a string tag, an int code, or
// nil when absent. Persistence layers use it to store the role exactly as it
// arrived.
func (r RawRole) Raw() any {
	switch {
	case r.isCode:
		return r.code
	case r.tag != "":
		return r.tag
	default:
		return nil
	}
}

// Is reports whether the raw role normalizes to the given canonical tag.
func (r RawRole) Is(role Role) bool {
	got, ok := r.Normalize()
	return ok && got == role
}

// MarshalJSON emits the representation the value was created with, so a
// record that arrived with a numeric code round-trips as a number.
func (r RawRole) MarshalJSON() ([]byte, error) {
	if r.isCode {
		return []byte(strconv.Itoa(r.code)), nil
	}
	if r.tag == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.tag)
}

// UnmarshalJSON accepts a string tag, a numeric code, or null.
func (r *RawRole) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RawRole{}
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*r = RoleFromCode(code)
		return nil
	}
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*r = RoleFromString(tag)
	return nil
}

// RoleFromClaim converts a JWT claim value into a RawRole. Claims decoded
// through MapClaims surface numbers as float64.
func RoleFromClaim(v any) RawRole {
	switch t := v.(type) {
	case string:
		return RoleFromString(t)
	case float64:
		return RoleFromCode(int(t))
	case int:
		return RoleFromCode(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return RoleFromCode(int(n))
		}
	}
	return RawRole{}
}
