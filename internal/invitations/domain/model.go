package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Invitation status values. An invitation is mutated exactly once by the
// invitee, or stays pending indefinitely.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

const placeholderPrefix = "pending_"

// Invitation mirrors a document in the invitations collection. Project name
// and inviter name are denormalized for display.
type Invitation struct {
	ID           string    `firestore:"-" json:"id"`
	ProjectID    string    `firestore:"projectId" json:"projectId"`
	ProjectName  string    `firestore:"projectName" json:"projectName"`
	InviterID    string    `firestore:"inviterId" json:"inviterId"`
	InviterName  string    `firestore:"inviterName" json:"inviterName"`
	InviteeID    string    `firestore:"inviteeId" json:"inviteeId"`
	InviteeEmail string    `firestore:"inviteeEmail" json:"inviteeEmail"`
	Role         string    `firestore:"role" json:"role"`
	Status       string    `firestore:"status" json:"status"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	RespondedAt  time.Time `firestore:"respondedAt" json:"respondedAt,omitempty"`
}

// Invitee returns who this invitation is addressed to.
func (i *Invitation) Invitee() InviteeRef {
	return InviteeRef{ID: i.InviteeID, Email: i.InviteeEmail}
}

// InviteeRef identifies the target of an invitation: either a known account
// or a placeholder identity minted before the invitee signed up. A
// placeholder is resolved to the real UID exactly once, by the acceptance or
// the reconciliation pass.
type InviteeRef struct {
	ID    string
	Email string
}

// KnownInvitee references an existing account.
func KnownInvitee(uid, email string) InviteeRef {
	return InviteeRef{ID: uid, Email: email}
}

// PlaceholderInvitee mints a synthetic identity for an email with no account.
func PlaceholderInvitee(email string) InviteeRef {
	return InviteeRef{ID: NewPlaceholderID(), Email: email}
}

// Placeholder reports whether the reference still points at a synthetic ID.
func (r InviteeRef) Placeholder() bool {
	return strings.HasPrefix(r.ID, placeholderPrefix)
}

// NewPlaceholderID builds a pending_<timestamp>_<random suffix> identifier.
func NewPlaceholderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return fmt.Sprintf("%s%d_%s", placeholderPrefix, time.Now().UnixMilli(), suffix)
}

// PendingUser is the placeholder document standing in for an invitee without
// an account. Superseded (and removed) once the real account exists.
type PendingUser struct {
	ID        string    `firestore:"-" json:"id"`
	Email     string    `firestore:"email" json:"email"`
	InvitedBy string    `firestore:"invitedBy" json:"invitedBy"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
