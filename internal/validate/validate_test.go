package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFields() Fields {
	return Fields{Name: "Ana", Email: "ana@x.com", Phone: "+12345"}
}

func TestCheckOK(t *testing.T) {
	res := Check(validFields(), true)
	assert.True(t, res.OK)
	assert.Empty(t, res.Field)
	assert.Empty(t, res.Message)
}

func TestCheckOrderedShortCircuit(t *testing.T) {
	tests := []struct {
		name         string
		fields       Fields
		slotSelected bool
		wantField    string
		wantMessage  string
	}{
		{
			name:         "no slot reported before empty fields",
			fields:       Fields{},
			slotSelected: false,
			wantField:    FieldSlot,
			wantMessage:  "Please select a time slot.",
		},
		{
			name:         "empty name",
			fields:       Fields{Email: "ana@x.com", Phone: "+12345"},
			slotSelected: true,
			wantField:    FieldName,
			wantMessage:  "This field is required",
		},
		{
			name:         "whitespace-only email counts as empty",
			fields:       Fields{Name: "Ana", Email: "   ", Phone: "+12345"},
			slotSelected: true,
			wantField:    FieldEmail,
			wantMessage:  "This field is required",
		},
		{
			name:         "empty phone",
			fields:       Fields{Name: "Ana", Email: "ana@x.com"},
			slotSelected: true,
			wantField:    FieldPhone,
			wantMessage:  "This field is required",
		},
		{
			name:         "malformed email",
			fields:       Fields{Name: "Ana", Email: "ana@x", Phone: "+12345"},
			slotSelected: true,
			wantField:    FieldEmail,
			wantMessage:  "Please enter a valid email address",
		},
		{
			name:         "email with space",
			fields:       Fields{Name: "Ana", Email: "a na@x.com", Phone: "+12345"},
			slotSelected: true,
			wantField:    FieldEmail,
			wantMessage:  "Please enter a valid email address",
		},
		{
			name:         "phone with leading zero",
			fields:       Fields{Name: "Ana", Email: "ana@x.com", Phone: "012345"},
			slotSelected: true,
			wantField:    FieldPhone,
			wantMessage:  "Please enter a valid phone number",
		},
		{
			name:         "phone too long",
			fields:       Fields{Name: "Ana", Email: "ana@x.com", Phone: "+12345678901234567"},
			slotSelected: true,
			wantField:    FieldPhone,
			wantMessage:  "Please enter a valid phone number",
		},
		{
			name:         "phone with letters",
			fields:       Fields{Name: "Ana", Email: "ana@x.com", Phone: "+12a45"},
			slotSelected: true,
			wantField:    FieldPhone,
			wantMessage:  "Please enter a valid phone number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(tt.fields, tt.slotSelected)
			assert.False(t, res.OK)
			assert.Equal(t, tt.wantField, res.Field)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}

func TestCheckPhoneWhitespaceStripped(t *testing.T) {
	fields := validFields()
	fields.Phone = "+1 23 45"
	res := Check(fields, true)
	assert.True(t, res.OK)
}

func TestCheckPhoneWithoutPlus(t *testing.T) {
	fields := validFields()
	fields.Phone = "12345"
	res := Check(fields, true)
	assert.True(t, res.OK)
}

func TestCheckField(t *testing.T) {
	fields := Fields{Name: "Ana", Email: "ana@x", Phone: ""}

	assert.True(t, CheckField(FieldName, fields).OK)

	res := CheckField(FieldEmail, fields)
	assert.False(t, res.OK)
	assert.Equal(t, "Please enter a valid email address", res.Message)

	res = CheckField(FieldPhone, fields)
	assert.False(t, res.OK)
	assert.Equal(t, "This field is required", res.Message)

	// Unknown fields are not validated.
	assert.True(t, CheckField("notes", fields).OK)
}
