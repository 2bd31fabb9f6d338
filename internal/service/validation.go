// internal/service/validation.go
package service

import (
	"strings"
	"unicode/utf8"

	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/model"
)

const (
	NameMinLen        = 3
	NameMaxLen        = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 500
)

const (
	msgNameTooShort        = "Campaign name must be at least 3 characters"
	msgNameTooLong         = "Campaign name must be at most 100 characters"
	msgInvalidType         = "Campaign type must be Email or WhatsApp"
	msgDescriptionTooShort = "Description must be at least 10 characters"
	msgDescriptionTooLong  = "Description must be at most 500 characters"
	msgInvalidStatus       = "Status must be Active, Draft, or Completed"
	msgInvalidSent         = "Sent must be a non-negative number"
	msgInvalidReplies      = "Replies must be a non-negative number"
)

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func checkName(f model.Field[string]) string {
	if !f.Valid {
		return msgNameTooShort
	}
	switch n := trimmedLen(f.Value); {
	case n < NameMinLen:
		return msgNameTooShort
	case n > NameMaxLen:
		return msgNameTooLong
	}
	return ""
}

func checkDescription(f model.Field[string]) string {
	if !f.Valid {
		return msgDescriptionTooShort
	}
	switch n := trimmedLen(f.Value); {
	case n < DescriptionMinLen:
		return msgDescriptionTooShort
	case n > DescriptionMaxLen:
		return msgDescriptionTooLong
	}
	return ""
}

func checkType(f model.Field[string]) string {
	if !f.Valid || !model.CampaignType(f.Value).Valid() {
		return msgInvalidType
	}
	return ""
}

func checkStatus(f model.Field[string]) string {
	if !f.Valid || !model.CampaignStatus(f.Value).Valid() {
		return msgInvalidStatus
	}
	return ""
}

func checkCounter(f model.Field[model.Count], msg string) string {
	if !f.Valid || f.Value < 0 {
		return msg
	}
	return ""
}

type violations []string

func (v *violations) add(msg string) {
	if msg != "" {
		*v = append(*v, msg)
	}
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return appErrors.NewValidationError(v...)
}

// ValidateDraft checks a create request and reports every broken rule at once.
func ValidateDraft(d model.CampaignDraft) error {
	var v violations
	v.add(checkName(d.Name))
	v.add(checkType(d.Type))
	v.add(checkDescription(d.Description))
	return v.err()
}

// supplied mirrors the truthiness test of a full update: absent, null and
// empty-string members are skipped rather than rejected.
func supplied(f model.Field[string]) bool {
	if !f.Present {
		return false
	}
	if f.Valid && f.Value == "" {
		return false
	}
	return true
}

// UpdateChanges validates a full-replace update and converts it into the set of
// columns to write.
func UpdateChanges(u model.CampaignUpdate) (model.CampaignChanges, error) {
	var (
		v       violations
		changes model.CampaignChanges
	)

	if supplied(u.Name) {
		v.add(checkName(u.Name))
		name := strings.TrimSpace(u.Name.Value)
		changes.Name = &name
	}
	if supplied(u.Type) {
		v.add(checkType(u.Type))
		typ := model.CampaignType(u.Type.Value)
		changes.Type = &typ
	}
	if supplied(u.Description) {
		v.add(checkDescription(u.Description))
		desc := strings.TrimSpace(u.Description.Value)
		changes.Description = &desc
	}
	if supplied(u.Status) {
		v.add(checkStatus(u.Status))
		status := model.CampaignStatus(u.Status.Value)
		changes.Status = &status
	}

	if err := v.err(); err != nil {
		return model.CampaignChanges{}, err
	}
	if changes.Empty() {
		return model.CampaignChanges{}, appErrors.ErrNoFieldsToUpdate
	}
	return changes, nil
}

// PatchChanges validates a counter/status patch. Each field is checked on its
// own and the first failure is reported alone.
func PatchChanges(p model.CampaignPatch) (model.CampaignChanges, error) {
	var changes model.CampaignChanges

	if p.Status.Present {
		if msg := checkStatus(p.Status); msg != "" {
			return model.CampaignChanges{}, appErrors.NewValidationError(msg)
		}
		status := model.CampaignStatus(p.Status.Value)
		changes.Status = &status
	}
	if p.Sent.Present {
		if msg := checkCounter(p.Sent, msgInvalidSent); msg != "" {
			return model.CampaignChanges{}, appErrors.NewValidationError(msg)
		}
		sent := int64(p.Sent.Value)
		changes.Sent = &sent
	}
	if p.Replies.Present {
		if msg := checkCounter(p.Replies, msgInvalidReplies); msg != "" {
			return model.CampaignChanges{}, appErrors.NewValidationError(msg)
		}
		replies := int64(p.Replies.Value)
		changes.Replies = &replies
	}

	if changes.Empty() {
		return model.CampaignChanges{}, appErrors.ErrNoFieldsToUpdate
	}
	return changes, nil
}
