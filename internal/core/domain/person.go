package domain

// Person is a canonical identity owned by the persistence collaborator.
// The matching core only reads Persons; it never creates or mutates them.
type Person struct {
	// ID is the unique identifier for the person.
	ID string

	// Name is the canonical display name.
	Name string

	// Affiliation is the party or faction, if known.
	Affiliation string

	// Role is the position held (議長, 委員長, 市長), if known.
	Role string
}

// MatchCandidate is a Person considered as a possible resolution target for
// one name. Ephemeral: produced by candidate selection and consumed within a
// single resolution call.
type MatchCandidate struct {
	Person Person

	// Priority marks candidates affiliated with the current body, which are
	// kept ahead of everyone else when the candidate set is bounded.
	Priority bool
}
