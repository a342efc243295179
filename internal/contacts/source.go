package contacts

import "context"

// AuthStatus describes read permission on the external contact store.
type AuthStatus string

const (
	// AuthAuthorized indicates the store can be read.
	AuthAuthorized AuthStatus = "authorized"
	// AuthDenied indicates access was denied by the platform or the user.
	AuthDenied AuthStatus = "denied"
	// AuthNotDetermined indicates access has not been established yet.
	AuthNotDetermined AuthStatus = "not_determined"
)

// Group is one raw contact-group row from the store. Exactly one of Title,
// (ResPackage, SystemID) resource pair, or SystemID alone may be usable for
// name resolution; groups resolving to nothing are dropped.
type Group struct {
	ID         string
	Title      string
	ResPackage string
	SystemID   string
}

// BirthdayRow is one raw birthday event row.
type BirthdayRow struct {
	ContactID string
	Name      string
	Birthday  string
	Starred   bool
	Visible   bool
	PhotoRef  string
}

// DataRow is one auxiliary data row (group membership, phone, email, or a
// messenger profile marker), typed by a mimetype constant from config.
type DataRow struct {
	ContactID string
	Mime      string
	Value     string
}

// Source is the read interface over the external contact store. All methods
// are read-only and safe to call repeatedly; implementations may be slow.
type Source interface {
	// AuthStatus reports whether the store is readable right now.
	AuthStatus(ctx context.Context) AuthStatus

	// Groups returns every contact-group row.
	Groups(ctx context.Context) ([]Group, error)

	// Birthdays returns every contact birthday event row.
	Birthdays(ctx context.Context) ([]BirthdayRow, error)

	// Data returns the auxiliary rows for exactly the given contact ids.
	// Callers chunk id lists to respect query size limits.
	Data(ctx context.Context, ids []string) ([]DataRow, error)
}

// GroupResolver resolves a resource-backed group title to a localized name.
// The second return is false when no translation exists.
type GroupResolver interface {
	Resolve(resPackage, systemID string) (string, bool)
}
