package suites

import (
	"context"
	"net/http"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

func authSuite() probe.Suite {
	return probe.Suite{
		Name:        "auth",
		Description: "Health, registration of buyers and business sellers, login and token handling",
		Tags:        []string{"smoke", "auth"},
		Checks: []probe.Check{
			{Name: "health", Run: checkHealth},
			signUpCheck("buyer", false),
			{Name: "register business seller", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := signUp(ctx, env, "seller", true)
				if err != nil {
					return err
				}
				env.Detailf("%s, role %s", acc.User.CompanyName, acc.User.Role)
				return probe.First(
					probe.ExpectTrue(acc.User.IsBusiness, "is_business not set on business account"),
					probe.ExpectTrue(acc.User.CompanyName != "", "company_name missing on business account"),
				)
			}},
			{Name: "duplicate email rejected", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				_, err = env.Client.Register(ctx, models.RegisterRequest{
					Username: acc.User.Username + "_again",
					Email:    acc.User.Email,
					Password: testPassword,
				})
				return probe.ExpectRejected(err)
			}},
			{Name: "login returns token and user", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				resp, err := env.Client.Raw(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: acc.User.Email, Password: acc.Password})
				if err != nil {
					return err
				}
				if err := probe.ExpectStatus(resp, http.StatusOK); err != nil {
					return err
				}
				body, err := resp.Object()
				if err != nil {
					return err
				}
				return probe.ExpectKeys(body, "token", "user")
			}},
			{Name: "wrong password rejected", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				_, err = env.Client.Login(ctx, acc.User.Email, acc.Password+"-wrong")
				return probe.ExpectAPIStatus(err, http.StatusUnauthorized)
			}},
			{Name: "token accepted on protected endpoint", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				_, err = acc.Client.Notifications(ctx, acc.User.ID)
				return err
			}},
			{Name: "missing token rejected", Run: func(ctx context.Context, env *probe.Env) error {
				acc, err := accountOf(env, "buyer")
				if err != nil {
					return err
				}
				_, err = env.Client.Notifications(ctx, acc.User.ID)
				return probe.ExpectTrue(srvErrors.IsUnauthorized(err) || srvErrors.IsForbidden(err),
					"expected 401 or 403 without token, got %v", err)
			}},
		},
	}
}

func checkHealth(ctx context.Context, env *probe.Env) error {
	h, err := env.Client.Health(ctx)
	if err != nil {
		return err
	}
	env.Detailf("status %s, version %s", h.Status, h.Version)
	return probe.ExpectTrue(h.Status != "", "health answered without status")
}
