package models

import (
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// legacyUUIDSubtype is the old BSON binary subtype for UUIDs. Documents in
// the activity collection were written by a JVM client using this encoding,
// so queries must pack player ids the same way to match.
const legacyUUIDSubtype = 0x03

// ErrInvalidPlayerID is returned when a stored player_id field is not a
// 16-byte legacy UUID binary
var ErrInvalidPlayerID = errors.New("player id is not a legacy uuid binary")

// PackPlayerID encodes a player UUID as a legacy BSON binary: the two
// 64-bit halves of the UUID, each written little-endian
func PackPlayerID(id uuid.UUID) primitive.Binary {
	data := make([]byte, 16)
	for i := 0; i < 8; i++ {
		data[i] = id[7-i]
		data[8+i] = id[15-i]
	}

	return primitive.Binary{
		Subtype: legacyUUIDSubtype,
		Data:    data,
	}
}

// UnpackPlayerID decodes a legacy BSON binary back into a player UUID
func UnpackPlayerID(bin primitive.Binary) (uuid.UUID, error) {
	if bin.Subtype != legacyUUIDSubtype || len(bin.Data) != 16 {
		return uuid.Nil, ErrInvalidPlayerID
	}

	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[7-i] = bin.Data[i]
		id[15-i] = bin.Data[8+i]
	}

	return id, nil
}
