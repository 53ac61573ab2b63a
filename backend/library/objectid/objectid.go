// Package objectid validates the opaque identifiers used for users, files and
// parents. Identifiers are 24-character hex ObjectIDs regardless of which
// store backend is in use.
package objectid

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Root is the parent id of top-level records. It is not a valid identifier
// and must be checked with IsRoot before calling Parse.
const Root = "0"

var ErrInvalidID = errors.New("invalid identifier")

// New returns a fresh identifier in hex form.
func New() string {
	return primitive.NewObjectID().Hex()
}

// Parse validates raw and returns its canonical lowercase form.
func Parse(raw string) (string, error) {
	id, err := ParseObjectID(raw)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func ParseObjectID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 24 {
		return primitive.NilObjectID, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// IsRoot reports whether raw denotes "no parent". The empty string counts
// as root so an omitted query parameter lists the top level.
func IsRoot(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == Root
}
