package domain

import "time"

// User mirrors a document in the users collection. The document ID is the
// Firebase UID.
type User struct {
	UID                string    `firestore:"uid" json:"uid"`
	Email              string    `firestore:"email" json:"email"`
	DisplayName        string    `firestore:"displayName" json:"displayName"`
	PhotoURL           string    `firestore:"photoURL" json:"photoURL"`
	Projects           []string  `firestore:"projects" json:"projects"`
	ProfileCompleted   bool      `firestore:"profileCompleted" json:"profileCompleted"`
	DashboardProjectID string    `firestore:"dashboardProjectId" json:"dashboardProjectId"`
	CreatedAt          time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// HasProject reports whether the user's project list already references id.
func (u *User) HasProject(id string) bool {
	for _, p := range u.Projects {
		if p == id {
			return true
		}
	}
	return false
}
