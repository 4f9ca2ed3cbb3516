package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password hash never leaves the repository/handler boundary:
// handlers expose users through sanitized view types with their own JSON
// tags, so no tags are declared here.
//
// The email column carries a UNIQUE index so concurrent signups with the
// same address cannot both succeed; the repository maps the duplicate-key
// error to ErrEmailExists. The column uses a binary collation: uniqueness
// and lookups are exact-string, so addresses differing only in case are
// distinct accounts.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	FullName     – display name shown to chat partners.
//	Email        – unique email address, stored exactly as registered.
//	PasswordHash – bcrypt hashed password.
//	ProfilePic   – URL of the uploaded avatar on the image host ("" if none).
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	ProfilePic   string    // users.profile_pic
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
