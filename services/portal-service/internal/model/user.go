package model

import (
	"crypto/subtle"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. VerificationCode is only present
// while the account is unverified and a code has been issued.
type User struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	Email            string        `bson:"email"`
	PasswordHash     string        `bson:"password_hash"`
	Verified         bool          `bson:"verified"`
	VerificationCode string        `bson:"verification_code,omitempty"`
	CreatedAt        time.Time     `bson:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at"`
}

// MatchesVerificationCode reports whether code verifies this account. It
// never matches a verified account or an account without an issued code.
func (u *User) MatchesVerificationCode(code string) bool {
	if u.Verified || u.VerificationCode == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(u.VerificationCode), []byte(code)) == 1
}
