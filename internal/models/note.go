package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note types.
const (
	NoteTypeText  = "text"
	NoteTypeAudio = "audio"
)

// NoteImage is an image embedded in a note document. Data holds a
// data-URL (content-type prefix plus base64 payload), so each entry is
// self-describing without external storage.
type NoteImage struct {
	Data        string `json:"data"        bson:"data"`
	ContentType string `json:"contentType" bson:"contentType"`
	Filename    string `json:"filename"    bson:"filename"`
}

// Note is an owned content document in the notes collection. Every
// access path filters by the owner reference in the query itself.
type Note struct {
	ID          primitive.ObjectID `json:"id"                    bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user"                  bson:"user"`
	Title       string             `json:"title"                 bson:"title"`
	Content     string             `json:"content"               bson:"content"`
	Type        string             `json:"type"                  bson:"type"`
	Date        time.Time          `json:"date"                  bson:"date"`
	AudioLength string             `json:"audioLength,omitempty" bson:"audioLength,omitempty"`
	IsFavorite  bool               `json:"isFavorite"            bson:"isFavorite"`
	Images      []NoteImage        `json:"images,omitempty"      bson:"images,omitempty"`
}

// CreateNoteRequest is the JSON body for POST /notes.
type CreateNoteRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	AudioLength string `json:"audioLength"`
}

// Validate checks the required note fields. AudioLength is required for
// audio notes and must be absent for text notes.
func (r *CreateNoteRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if r.Content == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	switch r.Type {
	case NoteTypeText:
		if r.AudioLength != "" {
			return fmt.Errorf("%w: audioLength is only valid for audio notes", ErrValidation)
		}
	case NoteTypeAudio:
		if r.AudioLength == "" {
			return fmt.Errorf("%w: audioLength is required for audio notes", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, NoteTypeText, NoteTypeAudio)
	}
	return nil
}
