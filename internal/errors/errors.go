// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrNoFieldsToUpdate is returned when an update or patch carries no recognised field.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// ErrCampaignNotFound is returned when an identifier has no matching campaign
type ErrCampaignNotFound struct {
	CampaignID int64
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int64) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ValidationError carries every violated rule as a human-readable message.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Details)
}

func NewValidationError(details ...string) error {
	return &ValidationError{Details: details}
}

func IsNotFound(err error) bool {
	var nf *ErrCampaignNotFound
	return errors.As(err, &nf)
}

// ValidationDetails returns the messages of a wrapped ValidationError, if any.
func ValidationDetails(err error) ([]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Details, true
	}
	return nil, false
}
