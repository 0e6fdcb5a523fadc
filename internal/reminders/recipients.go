package reminders

import "swagplan/internal/models"

type userIndex map[string]*models.User

func indexUsers(users []models.User) userIndex {
	index := make(userIndex, len(users))
	for i := range users {
		// first user with a given ID wins
		if _, ok := index[users[i].ID]; !ok {
			index[users[i].ID] = &users[i]
		}
	}
	return index
}

// ResolveRecipients lists the unique email addresses to notify for an activity:
// the responsible user first, then participants in sign-up order.
func ResolveRecipients(activity *models.Activity, users []models.User) []string {
	return indexUsers(users).recipientsFor(activity)
}

func (idx userIndex) recipientsFor(activity *models.Activity) []string {
	emails := []string{}
	seen := make(map[string]struct{})

	add := func(userID string) {
		user, ok := idx[userID]
		if !ok || user.Email == "" {
			return
		}
		if _, dup := seen[user.Email]; dup {
			return
		}
		seen[user.Email] = struct{}{}
		emails = append(emails, user.Email)
	}

	if activity.HasResponsible() {
		add(activity.ResponsibleID())
	}
	for _, participantID := range activity.Participants {
		add(participantID)
	}
	return emails
}
