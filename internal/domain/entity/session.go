package entity

import "time"

// Session registro persistido de quién inició sesión y hasta cuándo.
// User es una copia tomada en el login: no refleja ediciones posteriores hasta el próximo login.
type Session struct {
	User      User  `json:"identity"`
	ExpiresAt int64 `json:"expiresAt"` // epoch en milisegundos
}

// NewSession crea la sesión con vencimiento now+ttl.
func NewSession(u User, now time.Time, ttl time.Duration) Session {
	return Session{User: u.Clone(), ExpiresAt: now.Add(ttl).UnixMilli()}
}

// Expiry instante de vencimiento.
func (s Session) Expiry() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}

// Valid true si el vencimiento es estrictamente posterior a now.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt > now.UnixMilli()
}
