package shared

// Identity is the resolved, authenticated representation of a user for
// the duration of a request. It carries the effective authority set so
// authorization decisions never reach back into the store.
type Identity struct {
	UserID      int64
	Email       string
	Username    string
	Authorities AuthoritySet
}

// HasAuthority reports whether the identity holds the given authority.
func (i Identity) HasAuthority(a Authority) bool {
	return i.Authorities.Has(a)
}
