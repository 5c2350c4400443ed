// Package validate holds the booking form's pure validation predicate.
package validate

import (
	"regexp"
	"strings"
)

// Field identifiers, matching the contact form's element names.
const (
	FieldSlot  = "slot"
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// User-facing messages. The banner/inline copy is part of the widget contract.
const (
	msgSlotRequired  = "Please select a time slot."
	msgFieldRequired = "This field is required"
	msgEmailInvalid  = "Please enter a valid email address"
	msgPhoneInvalid  = "Please enter a valid phone number"
)

var (
	// local-part "@" domain-with-dot shape.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// optional leading "+", then 1-16 digits with no leading zero.
	phoneRe = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)
	spaceRe = regexp.MustCompile(`\s`)
)

// Fields is the contact form content, read at validation time.
type Fields struct {
	Name  string
	Email string
	Phone string
}

// Result reports the first failing rule, if any.
type Result struct {
	OK      bool
	Field   string // which field failed; empty when OK
	Message string // inline/banner copy for the failure
}

// Check applies the validation rules in order, short-circuiting at the first
// failure: slot selected, required fields, email shape, phone shape. It is a
// pure predicate with no side effects.
func Check(fields Fields, slotSelected bool) Result {
	if !slotSelected {
		return fail(FieldSlot, msgSlotRequired)
	}

	for _, f := range []struct {
		id    string
		value string
	}{
		{FieldName, fields.Name},
		{FieldEmail, fields.Email},
		{FieldPhone, fields.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fail(f.id, msgFieldRequired)
		}
	}

	if !emailRe.MatchString(strings.TrimSpace(fields.Email)) {
		return fail(FieldEmail, msgEmailInvalid)
	}

	phone := spaceRe.ReplaceAllString(fields.Phone, "")
	if !phoneRe.MatchString(phone) {
		return fail(FieldPhone, msgPhoneInvalid)
	}

	return Result{OK: true}
}

// CheckField validates a single field in isolation, used on blur. A slot
// check is not part of per-field validation.
func CheckField(field string, fields Fields) Result {
	var value string
	switch field {
	case FieldName:
		value = fields.Name
	case FieldEmail:
		value = fields.Email
	case FieldPhone:
		value = fields.Phone
	default:
		return Result{OK: true}
	}

	if strings.TrimSpace(value) == "" {
		return fail(field, msgFieldRequired)
	}
	switch field {
	case FieldEmail:
		if !emailRe.MatchString(strings.TrimSpace(value)) {
			return fail(field, msgEmailInvalid)
		}
	case FieldPhone:
		if !phoneRe.MatchString(spaceRe.ReplaceAllString(value, "")) {
			return fail(field, msgPhoneInvalid)
		}
	}
	return Result{OK: true}
}

func fail(field, message string) Result {
	return Result{OK: false, Field: field, Message: message}
}
