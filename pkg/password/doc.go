// Package password implements the login collaborator: credential
// verification against stored bcrypt hashes. Session issuance is the
// session manager's job, not this package's.
package password
