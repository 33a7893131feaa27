package suites

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

func adminSuite() probe.Suite {
	setActive := func(name string, active bool) probe.Check {
		return probe.Check{Name: name, Run: func(ctx context.Context, env *probe.Env) error {
			user, err := accountOf(env, "user")
			if err != nil {
				return err
			}
			u, err := env.Admin.UpdateUserStatus(ctx, user.User.ID, models.UserStatusUpdate{IsActive: active, Reason: "cataloro probe"})
			if err != nil {
				return err
			}
			if !active {
				env.Cleanup("reactivate user", func(ctx context.Context) error {
					_, err := env.Admin.UpdateUserStatus(ctx, user.User.ID, models.UserStatusUpdate{IsActive: true})
					return err
				})
			}
			return probe.ExpectEqual("is_active", u.IsActive, active)
		}}
	}

	return probe.Suite{
		Name:          "admin",
		Description:   "Admin panel: user listing, suspension and access control",
		Tags:          []string{"admin"},
		RequiresAdmin: true,
		Checks: []probe.Check{
			signUpCheck("user", false),
			{Name: "list users", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				users, err := env.Admin.AdminUsers(ctx)
				if err != nil {
					return err
				}
				env.Detailf("%d users", len(users))
				for _, u := range users {
					if u.ID == user.User.ID {
						return nil
					}
				}
				return probe.ExpectTrue(false, "registered user %s not in admin user list", user.User.Email)
			}},
			setActive("suspend user", false),
			{Name: "suspended user cannot log in", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				_, err = env.Client.Login(ctx, user.User.Email, user.Password)
				return probe.ExpectTrue(srvErrors.IsForbidden(err) || srvErrors.IsUnauthorized(err),
					"expected 401 or 403 for a suspended user, got %v", err)
			}},
			setActive("reactivate user", true),
			{Name: "reactivated user can log in", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				_, err = env.Client.Login(ctx, user.User.Email, user.Password)
				return err
			}},
			{Name: "non-admin forbidden", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				_, err = user.Client.AdminUsers(ctx)
				return probe.ExpectAPIStatus(err, http.StatusForbidden)
			}},
		},
	}
}

func exportSuite() probe.Suite {
	return probe.Suite{
		Name:          "export",
		Description:   "Admin PDF export",
		Tags:          []string{"admin"},
		RequiresAdmin: true,
		Checks: []probe.Check{
			{Name: "export pdf", Run: func(ctx context.Context, env *probe.Env) error {
				resp, err := env.Admin.ExportPDF(ctx, models.ExportRequest{
					Title:   "Cataloro probe export",
					Section: "users",
					Items:   []string{"probe line 1", "probe line 2"},
				})
				if err != nil {
					return err
				}
				env.Detailf("%d bytes", len(resp.Body))
				return probe.First(
					probe.ExpectTrue(strings.HasPrefix(resp.ContentType(), "application/pdf"),
						"expected application/pdf, got %q", resp.ContentType()),
					probe.ExpectTrue(bytes.HasPrefix(resp.Body, []byte("%PDF")), "body does not start with %%PDF"),
				)
			}},
			signUpCheck("user", false),
			{Name: "export forbidden for non-admin", Run: func(ctx context.Context, env *probe.Env) error {
				user, err := accountOf(env, "user")
				if err != nil {
					return err
				}
				_, err = user.Client.ExportPDF(ctx, models.ExportRequest{Title: "nope", Section: "users"})
				return probe.ExpectTrue(srvErrors.IsForbidden(err) || srvErrors.IsUnauthorized(err),
					"expected 401 or 403, got %v", err)
			}},
		},
	}
}
