package types

import (
	"strconv"
	"time"
)

// ResetToken is a single-use password reset credential. Issuing a new token
// supersedes any live token for the same user; redemption removes the token
// in the same rewrite (or transaction) that reads it.
type ResetToken struct {
	UserID string
	Token  string
	Expiry time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.Expiry)
}

// Record converts the token to its storage form.
func (t ResetToken) Record() Record {
	return Record{
		"user_id": t.UserID,
		"token":   t.Token,
		"expiry":  strconv.FormatInt(t.Expiry.Unix(), 10),
	}
}

// ResetTokenFromRecord converts a storage record to a ResetToken.
func ResetTokenFromRecord(rec Record) ResetToken {
	return ResetToken{
		UserID: rec["user_id"],
		Token:  rec["token"],
		Expiry: unixTime(rec["expiry"]),
	}
}
