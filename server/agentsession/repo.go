package agentsession

import (
	"context"
	"time"

	"github.com/flyodesk/agency-console/coreapi"
)

// Session is the cached agency-staff profile for one browser session. It is
// the server-side stand-in for what the console used to keep in browser
// storage: the agent's backend JWT and the locally cached profile with its
// linked mailboxes.
type Session struct {
	ID          string                `json:"id"`
	Email       string                `json:"email"`
	Name        string                `json:"name"`
	AgentToken  string                `json:"agentToken"`
	Emails      []coreapi.LinkedEmail `json:"emails"`
	LegacyLogin bool                  `json:"legacyLogin"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// AddEmail appends a linked mailbox to the cached profile in place, skipping
// the append when that address is already present. Reports whether the
// profile changed.
func (s *Session) AddEmail(email coreapi.LinkedEmail) bool {
	for _, existing := range s.Emails {
		if existing.Email == email.Email {
			return false
		}
	}
	s.Emails = append(s.Emails, email)
	return true
}

type Repo interface {
	Upsert(ctx context.Context, sessionID string, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
}
