package suites

import (
	"context"
	"fmt"
	"strings"

	"github.com/cataloro/cataloro-probe/internal/client"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/probe"
	"github.com/cataloro/cataloro-probe/internal/util"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

const testPassword = "ProbePass123!"

// account is a user registered by a suite, stored in the Env under its role key.
type account struct {
	User     models.User
	Password string
	Client   *client.Client
}

// signUp registers a fresh user, logs it in and stores it under key.
func signUp(ctx context.Context, env *probe.Env, key string, business bool) (*account, error) {
	req := models.RegisterRequest{
		Username: util.UniqueName("probe_" + key),
		Email:    util.UniqueEmail("probe_" + key),
		Password: testPassword,
		FullName: "Probe " + strings.ToUpper(key[:1]) + key[1:],
	}
	if business {
		req.IsBusiness = true
		req.CompanyName = util.UniqueName("Probe Catalysts")
		req.Country = "Germany"
	}

	if _, err := env.Client.Register(ctx, req); err != nil {
		return nil, fmt.Errorf("registering %s: %w", key, err)
	}
	session, err := env.Client.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("logging in %s: %w", key, err)
	}

	acc := &account{User: session.User, Password: req.Password, Client: env.Client.WithToken(session.Token)}
	env.Set(key, acc)
	env.Set(key+"_id", session.User.ID)
	return acc, nil
}

// accountOf returns the account stored under key, or a skip error.
func accountOf(env *probe.Env, key string) (*account, error) {
	v, ok := env.Get(key)
	if !ok {
		return nil, probe.Skipf("no %s account", key)
	}
	acc, ok := v.(*account)
	if !ok {
		return nil, probe.Skipf("no %s account", key)
	}
	return acc, nil
}

// signUpCheck is the usual first check of a suite.
func signUpCheck(key string, business bool) probe.Check {
	return probe.Check{
		Name: "register " + key,
		Run: func(ctx context.Context, env *probe.Env) error {
			acc, err := signUp(ctx, env, key, business)
			if err != nil {
				return err
			}
			env.Detailf("%s (%s)", acc.User.Email, acc.User.ID)
			return probe.ExpectTrue(acc.User.ID != "", "registered user has no id")
		},
	}
}

// testListing is a listing payload with a unique, searchable title.
func testListing(sellerID string) models.Listing {
	return models.Listing{
		Title:         util.UniqueName("Probe Catalyst"),
		Description:   "Catalytic converter listed by the cataloro probe",
		Price:         150,
		Category:      "Catalysts",
		Condition:     models.ConditionUsed,
		SellerID:      sellerID,
		CatalystID:    "32076",
		CeramicWeight: 1.32,
		PtPPM:         1180,
		PdPPM:         2870,
		RhPPM:         320,
	}
}

func containsListing(listings []models.Listing, id string) bool {
	for _, l := range listings {
		if l.ID == id {
			return true
		}
	}
	return false
}

// deleteListingCleanup removes a created listing, tolerating that a check already did.
func deleteListingCleanup(c *client.Client, id string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return ignoreNotFound(c.DeleteListing(ctx, id))
	}
}

func ignoreNotFound(err error) error {
	if srvErrors.IsNotFound(err) {
		return nil
	}
	return err
}
