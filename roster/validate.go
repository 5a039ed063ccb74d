package roster

import (
	"net/mail"
	"time"

	"github.com/flyodesk/agency-console/coreapi"
)

// FieldError is one failed rule on one form field. Handlers render these
// inline next to the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// dateLayout is how the console and the core API exchange calendar dates.
const dateLayout = "2006-01-02"

// ValidatePassenger applies the shared passenger rules. It is the single
// validator for the add, edit and merge forms; nil means valid.
func ValidatePassenger(in coreapi.PassengerInput) []FieldError {
	var errs []FieldError
	if in.FirstName == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "first name is required"})
	}
	if in.LastName == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "last name is required"})
	}
	errs = append(errs, validateEmail("email", in.Email)...)
	if in.DateOfBirth != "" {
		if _, err := time.Parse(dateLayout, in.DateOfBirth); err != nil {
			errs = append(errs, FieldError{Field: "dateOfBirth", Message: "date must be YYYY-MM-DD"})
		}
	}
	return errs
}

// ValidateClient applies the shared client-contact rules.
func ValidateClient(in coreapi.ClientInput) []FieldError {
	var errs []FieldError
	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	errs = append(errs, validateEmail("email", in.Email)...)
	return errs
}

// ValidatePassport checks the document metadata accompanying an upload. An
// expiry date in the past is rejected; an unparseable one is a format error.
func ValidatePassport(doc coreapi.PassportDoc, now time.Time) []FieldError {
	var errs []FieldError
	if doc.DocumentNumber == "" {
		errs = append(errs, FieldError{Field: "documentNumber", Message: "document number is required"})
	}
	if doc.Nationality == "" {
		errs = append(errs, FieldError{Field: "nationality", Message: "nationality is required"})
	}
	if doc.ExpiryDate == "" {
		errs = append(errs, FieldError{Field: "expiryDate", Message: "expiry date is required"})
	} else if expiry, err := time.Parse(dateLayout, doc.ExpiryDate); err != nil {
		errs = append(errs, FieldError{Field: "expiryDate", Message: "date must be YYYY-MM-DD"})
	} else if expiry.Before(now) {
		errs = append(errs, FieldError{Field: "expiryDate", Message: "document has expired"})
	}
	return errs
}

func validateEmail(field, value string) []FieldError {
	if value == "" {
		return []FieldError{{Field: field, Message: "email is required"}}
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return []FieldError{{Field: field, Message: "email address is malformed"}}
	}
	return nil
}
