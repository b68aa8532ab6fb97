package postgres

import "github.com/google/uuid"

// nullUUID maps uuid.Nil to SQL NULL.
func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

// uuidOrNil maps SQL NULL back to uuid.Nil.
func uuidOrNil(n uuid.NullUUID) uuid.UUID {
	if !n.Valid {
		return uuid.Nil
	}
	return n.UUID
}
