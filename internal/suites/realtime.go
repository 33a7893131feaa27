package suites

import (
	"context"
	"time"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
)

const deliveryTimeout = 10 * time.Second

func realtimeSuite() probe.Suite {
	return probe.Suite{
		Name:        "realtime",
		Description: "Websocket delivery of notifications",
		Tags:        []string{"realtime"},
		Checks: []probe.Check{
			signUpCheck("user", false),
			{Name: "open notification socket", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				stream, err := user.Client.DialNotifications(ctx, user.User.ID)
				if err != nil {
					return err
				}
				env.Set("stream", stream)
				env.Cleanup("close socket", func(context.Context) error { return stream.Close() })
				return nil
			}},
			{Name: "notification delivered", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				v, ok := env.Get("stream")
				if !ok {
					return probe.Skipf("socket not open")
				}
				stream := v.(*client.NotificationStream)

				n, err := user.Client.CreateNotification(ctx, models.Notification{
					UserID:  user.User.ID,
					Title:   "Probe realtime",
					Message: "pushed over the socket",
					Type:    "system",
				})
				if err != nil {
					return err
				}

				readCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
				defer cancel()
				start := time.Now()
				for {
					ev, err := stream.Next(readCtx)
					if err != nil {
						return err
					}
					if ev.Notification.ID == n.ID {
						env.Detailf("delivered in %dms", time.Since(start).Milliseconds())
						return nil
					}
				}
			}},
		},
	}
}
