package models

import (
	"errors"

	"github.com/google/uuid"
)

const (
	ChangeEventInsert = "insert"
	ChangeEventUpdate = "update"
	ChangeEventDelete = "delete"
)

var (
	ErrUnknownChangeEventType = errors.New("unknown change event type")
	ErrChangeEventMissingID   = errors.New("change event record has no ID")
)

// ChangeEvent is one notification from the push feed about a remote
// insert/update/delete. Delete events only need the record ID populated.
type ChangeEvent struct {
	Type        string      `json:"type"`
	Transaction Transaction `json:"record"`
}

// Validate rejects malformed feed payloads before they reach the canonical set
func (e *ChangeEvent) Validate() error {
	switch e.Type {
	case ChangeEventInsert, ChangeEventUpdate, ChangeEventDelete:
	default:
		return ErrUnknownChangeEventType
	}

	if e.Transaction.ID == uuid.Nil {
		return ErrChangeEventMissingID
	}

	if e.Type == ChangeEventDelete {
		return nil
	}

	return e.Transaction.Validate()
}
