package core

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Author is a registered profile referenced by posts through its handle.
type Author struct {
	Handle   string   `json:"handle"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
}

var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateHandle checks that handle is usable as a file name in the author registry.
func ValidateHandle(handle string) error {
	err := validation.Validate(handle,
		validation.Required,
		validation.Length(1, 64),
		validation.Match(handlePattern).Error("must be lowercase letters, digits, '-' or '_'"),
	)
	if err != nil {
		return fmt.Errorf("%w: handle %q: %v", ErrInvalidAuthor, handle, err)
	}
	return nil
}

// Validate checks the author before registration.
func (a Author) Validate() error {
	if err := ValidateHandle(a.Handle); err != nil {
		return err
	}
	err := validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 200)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidAuthor, a.Handle, err)
	}

	if email, ok := a.Metadata["email"].(string); ok {
		if err := validation.Validate(email, is.EmailFormat); err != nil {
			return fmt.Errorf("%w: %s: email: %v", ErrInvalidAuthor, a.Handle, err)
		}
	}
	return nil
}
