package contacts

// Contact is one snapshot row: a person with a birthday, the labels derived
// from their groups, and the precomputed birthday math. Snapshots are rebuilt
// wholesale on every sync; a Contact is never mutated in place.
type Contact struct {
	// ID is the stable external identifier, unique within a snapshot.
	ID string

	// Name is the display name; never empty (falls back to a placeholder).
	Name string

	// Birthday is the raw date string: YYYY-MM-DD or --MM-DD.
	Birthday string

	// Labels is the sorted, non-empty label set. Contacts without natural
	// labels carry the "Unlabeled" sentinel.
	Labels []string

	// Age at the next birthday. 0 means the birth year is unknown.
	Age int

	// RemainingDays until the next occurrence, 0 = today. Computed relative
	// to snapshot time; presentation never re-derives it.
	RemainingDays int

	// Actions are the contact channels discovered in the source data rows.
	Actions Actions

	// PhotoRef is a best-effort photo reference; a fallback URI is
	// constructed when the source has none.
	PhotoRef string
}

// Actions bundles the optional contact channels. Messenger flags reflect the
// existence of provider profile rows, not installed-app detection.
type Actions struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	WhatsApp bool   `json:"whatsapp,omitempty"`
	Signal   bool   `json:"signal,omitempty"`
	Telegram bool   `json:"telegram,omitempty"`
}

// HasLabel reports whether the contact carries the given label.
func (c Contact) HasLabel(label string) bool {
	for _, l := range c.Labels {
		if l == label {
			return true
		}
	}
	return false
}
