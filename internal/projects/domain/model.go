package domain

import "time"

// Member roles. Casing follows the stored data: ownership roles are lower
// case, assignable roles are capitalized.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "Member"
	RoleViewer = "Viewer"
)

// PendingInvite is the denormalized invitation summary kept on the project
// document. The invitation document remains the source of truth.
type PendingInvite struct {
	InvitationID string    `firestore:"invitationId" json:"invitationId"`
	Email        string    `firestore:"email" json:"email"`
	Role         string    `firestore:"role" json:"role"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}

// Project mirrors a document in the projects collection.
type Project struct {
	ID                 string            `firestore:"-" json:"id"`
	Name               string            `firestore:"name" json:"name"`
	Description        string            `firestore:"description" json:"description"`
	OwnerID            string            `firestore:"ownerId" json:"ownerId"`
	Members            []string          `firestore:"members" json:"members"`
	MemberRoles        map[string]string `firestore:"memberRoles" json:"memberRoles"`
	PendingInvitations []PendingInvite   `firestore:"pendingInvitations" json:"pendingInvitations"`
	CreatedAt          time.Time         `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time         `firestore:"updatedAt" json:"updatedAt"`
}

func (p *Project) HasMember(uid string) bool {
	for _, m := range p.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// CanInvite reports whether uid may invite users to this project.
func (p *Project) CanInvite(uid string) bool {
	return p.OwnerID == uid || p.MemberRoles[uid] == RoleAdmin
}

// RoleOf returns the stored role for uid, defaulting to Member where the
// roles map has gaps.
func (p *Project) RoleOf(uid string) string {
	if role, ok := p.MemberRoles[uid]; ok && role != "" {
		return role
	}
	return RoleMember
}

// TeamMember is a row in the effective team list: an active member resolved
// from the users collection, or a pending invitee shown before acceptance.
type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoURL,omitempty"`
	Pending  bool   `json:"pending"`
}

// Session is a tracked time entry, read-only here. Duration is stored as a
// HH:MM:SS clock string.
type Session struct {
	ID        string `firestore:"-" json:"id"`
	ProjectID string `firestore:"projectId" json:"projectId"`
	UserID    string `firestore:"userId" json:"userId"`
	Duration  string `firestore:"duration" json:"duration"`
}

// MemberActivity aggregates session time per project member.
type MemberActivity struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email,omitempty"`
	PhotoURL     string `json:"photoURL,omitempty"`
	Role         string `json:"role"`
	TotalSeconds int64  `json:"totalTimeSeconds"`
	SessionCount int    `json:"sessionCount"`
}
