package queue

import "time"

// Routing keys on the sendy.events topic exchange.
const (
	KeyDomainCreated  = "domain.created"
	KeyDomainUnlocked = "domain.unlocked"
	KeyDomainUpdated  = "domain.updated"
	KeyDomainDeleted  = "domain.deleted"
)

// EventKeys lists every routing key the service publishes.
var EventKeys = []string{KeyDomainCreated, KeyDomainUnlocked, KeyDomainUpdated, KeyDomainDeleted}

type DomainCreated struct {
	Domain    string    `json:"domain"`
	Locked    bool      `json:"locked"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DomainUnlocked struct {
	Domain           string    `json:"domain"`
	TokenFingerprint string    `json:"token_fp"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type DomainUpdated struct {
	Domain       string `json:"domain"`
	ContentBytes int    `json:"content_bytes"`
	Files        int    `json:"files"`
}

type DomainDeleted struct {
	Domain        string `json:"domain"`
	TokensRevoked int64  `json:"tokens_revoked"`
}
