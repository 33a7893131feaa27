package suites

import (
	"context"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

func notificationsSuite() probe.Suite {
	create := func(name, title string) probe.Check {
		return probe.Check{Name: name, Run: func(ctx context.Context, env *probe.Env) error {
			user, err := accountOf(env, "user")
			if err != nil {
				return err
			}
			n, err := user.Client.CreateNotification(ctx, models.Notification{
				UserID:  user.User.ID,
				Title:   title,
				Message: "sent by the cataloro probe",
				Type:    "system",
			})
			if err != nil {
				return err
			}
			ids, _ := env.Get("notification_ids")
			list, _ := ids.([]string)
			env.Set("notification_ids", append(list, n.ID))
			return probe.ExpectTrue(!n.IsRead, "new notification already read")
		}}
	}

	return probe.Suite{
		Name:        "notifications",
		Description: "Notification creation, listing and read state",
		Tags:        []string{"users"},
		Checks: []probe.Check{
			signUpCheck("user", false),
			create("create notification", "Probe notification 1"),
			create("create second notification", "Probe notification 2"),
			{Name: "list notifications", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				notes, err := user.Client.Notifications(ctx, user.User.ID)
				if err != nil {
					return err
				}
				unread := countUnread(notes)
				env.Set("unread", unread)
				env.Detailf("%d notifications, %d unread", len(notes), unread)

				ids, _ := env.Get("notification_ids")
				list, _ := ids.([]string)
				for _, id := range list {
					if !containsNotification(notes, id) {
						return probe.ExpectTrue(false, "notification %s not listed", id)
					}
				}
				return nil
			}},
			{Name: "mark notification read", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				ids, _ := env.Get("notification_ids")
				list, _ := ids.([]string)
				if len(list) == 0 {
					return probe.Skipf("no notification created")
				}
				return user.Client.MarkNotificationRead(ctx, user.User.ID, list[0])
			}},
			{Name: "unread count decreased", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				before, ok := env.GetInt("unread")
				if !ok {
					return probe.Skipf("unread count not known")
				}
				notes, err := user.Client.Notifications(ctx, user.User.ID)
				if err != nil {
					return err
				}
				return probe.ExpectEqual("unread", countUnread(notes), before-1)
			}},
			{Name: "unknown notification rejected", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				err = user.Client.MarkNotificationRead(ctx, user.User.ID, "probe-no-such-notification")
				return probe.ExpectTrue(srvErrors.IsNotFound(err) || srvErrors.IsValidation(err),
					"expected 404 for an unknown notification, got %v", err)
			}},
		},
	}
}

func countUnread(notes []models.Notification) int {
	n := 0
	for _, note := range notes {
		if !note.IsRead {
			n++
		}
	}
	return n
}

func containsNotification(notes []models.Notification, id string) bool {
	for _, n := range notes {
		if n.ID == id {
			return true
		}
	}
	return false
}
