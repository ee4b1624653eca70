package domain

import "strings"

// Identity is the resolved caller context of a request: either an
// authenticated user id or an anonymous session id, never both. When a
// request carries both, the authenticated identity wins.
type Identity struct {
	userID    int64
	sessionID string
}

// AuthenticatedIdentity builds an identity for a known user.
func AuthenticatedIdentity(userID int64) Identity {
	return Identity{userID: userID}
}

// AnonymousIdentity builds an identity from a client session id.
func AnonymousIdentity(sessionID string) Identity {
	return Identity{sessionID: sessionID}
}

// ResolveIdentity applies the precedence rule. userID 0 means
// unauthenticated; a blank sessionID means no session header. ok is
// false when neither is present.
func ResolveIdentity(userID int64, sessionID string) (Identity, bool) {
	if userID != 0 {
		return AuthenticatedIdentity(userID), true
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		return AnonymousIdentity(sessionID), true
	}
	return Identity{}, false
}

// UserID reports the authenticated user, if any.
func (id Identity) UserID() (int64, bool) {
	return id.userID, id.userID != 0
}

// SessionID reports the anonymous session, if any.
func (id Identity) SessionID() (string, bool) {
	return id.sessionID, id.userID == 0 && id.sessionID != ""
}
