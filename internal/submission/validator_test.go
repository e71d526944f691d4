package submission

import (
	"testing"

	"github.com/guaraci/paylink-gateway/internal/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() map[string]string {
	return map[string]string{
		FieldName:  "Maria Silva",
		FieldEmail: "maria@example.com",
		FieldPhone: "+55 11 99999-0000",
		FieldCard:  "4111111111111111",
	}
}

func TestValidateAccepts(t *testing.T) {
	id := link.New()

	sub, err := Validate(validFields(), id)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", sub.Name)
	assert.Equal(t, "maria@example.com", sub.Email)
	assert.Equal(t, "+55 11 99999-0000", sub.Phone)
	assert.Equal(t, "4111111111111111", sub.CardDigits)
	assert.Equal(t, id, sub.LinkID)
}

func TestValidateTrimsFields(t *testing.T) {
	fields := validFields()
	fields[FieldName] = "  Maria Silva  "

	sub, err := Validate(fields, link.New())
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", sub.Name)
}

func TestValidateRejectsBadLink(t *testing.T) {
	_, err := Validate(validFields(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestValidateRejectsAnyMissingField(t *testing.T) {
	for _, missing := range []string{FieldName, FieldEmail, FieldPhone, FieldCard} {
		fields := validFields()
		fields[missing] = "   "

		_, err := Validate(fields, link.New())
		assert.ErrorIs(t, err, ErrIncompleteData, "field %s", missing)
	}
}
