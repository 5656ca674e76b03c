package tracker

// Owned is implemented by every entity scoped to a single user.
type Owned interface {
	OwnerID() string
}

// authorize returns entity when it exists and belongs to callerID. A nil
// entity yields ErrNotFound, a foreign one ErrUnauthorized.
func authorize[E any, P interface {
	*E
	Owned
}](entity P, callerID string) (P, error) {
	if entity == nil {
		return nil, ErrNotFound
	}
	if entity.OwnerID() != callerID {
		return nil, ErrUnauthorized
	}
	return entity, nil
}
