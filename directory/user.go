package directory

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/bitfsorg/libreferral-go/money"
)

// Role distinguishes administrators from ordinary members.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Argon2id parameters for credential digests. Credentials are not a security
// boundary here, so the cost is kept low enough for bulk registration.
const (
	Argon2Time        = 1
	Argon2Memory      = 16 * 1024 // 16 MB
	Argon2Parallelism = 2
	Argon2KeyLen      = 32

	credentialPrefix = "argon2id$"
)

// User is a member of the referral forest.
type User struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Credential    string       `json:"credential"` // argon2id digest, see HashCredential
	Name          string       `json:"name"`
	SponsorID     string       `json:"sponsor_id,omitempty"` // empty only for the root
	Balance       money.Amount `json:"balance"`
	TotalEarnings money.Amount `json:"total_earnings"`
	Role          Role         `json:"role"`
	JoinedAt      time.Time    `json:"joined_at"`
}

// IsRoot reports whether the user has no sponsor.
func (u *User) IsRoot() bool { return u.SponsorID == "" }

// Clone returns a copy of the user record.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// HashCredential derives the stored credential for a password.
//
//	credential = "argon2id$" || hex(argon2id(password, SHA256("referral:" || userID)[:16]))
//
// The salt is bound to the immutable user ID, so the same user and password
// always produce the same credential.
func HashCredential(userID, password string) string {
	salt := sha256.Sum256([]byte("referral:" + userID))
	key := argon2.IDKey([]byte(password), salt[:16], Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	return credentialPrefix + hex.EncodeToString(key)
}

// checkCredential compares a password against the stored credential.
func (u *User) checkCredential(password string) bool {
	if !strings.HasPrefix(u.Credential, credentialPrefix) {
		return false
	}
	want := HashCredential(u.ID, password)
	return subtle.ConstantTimeCompare([]byte(want), []byte(u.Credential)) == 1
}
