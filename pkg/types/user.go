package types

// Default preference values applied at registration.
const (
	DefaultLocale = "en"
	DefaultTheme  = "light"
)

// User is a registered account. PasswordHash is a bcrypt hash; Token is the
// current session token, empty when logged out. Users are never physically
// removed.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Token        string
	Locale       string
	Theme        string
}

// Record converts the user to its storage form.
func (u User) Record() Record {
	return Record{
		"id":            u.ID,
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"email":         u.Email,
		"token":         u.Token,
		"locale":        u.Locale,
		"theme":         u.Theme,
	}
}

// UserFromRecord converts a storage record to a User.
func UserFromRecord(rec Record) User {
	return User{
		ID:           rec["id"],
		Username:     rec["username"],
		PasswordHash: rec["password_hash"],
		Email:        rec["email"],
		Token:        rec["token"],
		Locale:       rec["locale"],
		Theme:        rec["theme"],
	}
}
