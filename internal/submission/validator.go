package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guaraci/paylink-gateway/internal/link"
	"github.com/guaraci/paylink-gateway/internal/model"
)

// Text field names of the public submit contract.
const (
	FieldName   = "nome"
	FieldEmail  = "email"
	FieldPhone  = "telefone"
	FieldCard   = "cartao"
	FieldLinkID = "linkId"
)

var (
	ErrInvalidLink    = errors.New("invalid link")
	ErrIncompleteData = errors.New("incomplete data")
)

// Validate binds the submitted text fields to a Submission. The link
// identifier must be a well-formed v4 identifier and the four data fields
// must be non-empty after trimming. Email format and card checksums are
// deliberately not checked here.
func Validate(fields map[string]string, linkID string) (model.Submission, error) {
	if !link.Valid(linkID) {
		return model.Submission{}, ErrInvalidLink
	}

	trimmed := make(map[string]string, 4)
	for _, f := range []string{FieldName, FieldEmail, FieldPhone, FieldCard} {
		v := strings.TrimSpace(fields[f])
		if v == "" {
			return model.Submission{}, fmt.Errorf("%w: missing %s", ErrIncompleteData, f)
		}
		trimmed[f] = v
	}

	return model.Submission{
		Name:       trimmed[FieldName],
		Email:      trimmed[FieldEmail],
		Phone:      trimmed[FieldPhone],
		CardDigits: trimmed[FieldCard],
		LinkID:     strings.TrimSpace(linkID),
	}, nil
}
