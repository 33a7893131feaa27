package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/client"
)

const cleanupTimeout = 30 * time.Second

// Credentials of the marketplace admin account.
type Credentials struct {
	Email    string
	Password string
}

type cleanup struct {
	name string
	fn   func(ctx context.Context) error
}

// Env is the state shared by the checks of one suite. Checks run one after
// another, so an Env is never used by two checks at once.
type Env struct {
	// Client is unauthenticated.
	Client *client.Client
	// Admin is logged in as the admin account. It is nil unless the suite requires admin.
	Admin *client.Client

	suite    string
	creds    Credentials
	log      *zap.SugaredLogger
	scratch  map[string]any
	cleanups []cleanup
	details  string
	mu       sync.Mutex
}

func NewEnv(suite string, c *client.Client, creds Credentials) *Env {
	return &Env{
		Client:  c,
		suite:   suite,
		creds:   creds,
		log:     zap.S().Named("probe").With("suite", suite),
		scratch: make(map[string]any),
	}
}

func (e *Env) Suite() string {
	return e.suite
}

func (e *Env) Log() *zap.SugaredLogger {
	return e.log
}

func (e *Env) AdminCredentials() Credentials {
	return e.creds
}

// LoginAdmin logs in with the admin credentials and sets Admin.
func (e *Env) LoginAdmin(ctx context.Context) error {
	session, err := e.Client.Login(ctx, e.creds.Email, e.creds.Password)
	if err != nil {
		return fmt.Errorf("admin login as %s: %w", e.creds.Email, err)
	}
	e.Admin = e.Client.WithToken(session.Token)
	e.Set("admin_id", session.User.ID)
	return nil
}

// Set stores a value for later checks of the suite, typically ids of created data.
func (e *Env) Set(key string, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scratch[key] = v
}

func (e *Env) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.scratch[key]
	return v, ok
}

func (e *Env) GetString(key string) (string, bool) {
	v, ok := e.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func (e *Env) GetInt(key string) (int, bool) {
	v, ok := e.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// MustString returns the value under key or a skip error naming it.
// Checks that depend on data created by an earlier check use it to bail out.
func (e *Env) MustString(key string) (string, error) {
	s, ok := e.GetString(key)
	if !ok {
		return "", Skipf("%s not available", key)
	}
	return s, nil
}

// Cleanup registers fn to run after the last check of the suite.
// Cleanups run in reverse registration order.
func (e *Env) Cleanup(name string, fn func(ctx context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups = append(e.cleanups, cleanup{name: name, fn: fn})
}

// Detailf sets the details shown next to the current check's result.
func (e *Env) Detailf(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.details = fmt.Sprintf(format, args...)
}

func (e *Env) takeDetails() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.details
	e.details = ""
	return d
}

// runCleanups runs even when ctx is already cancelled. Failures are logged only.
func (e *Env) runCleanups(ctx context.Context) {
	e.mu.Lock()
	cleanups := e.cleanups
	e.cleanups = nil
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	for i := len(cleanups) - 1; i >= 0; i-- {
		c := cleanups[i]
		if err := runCleanup(ctx, c); err != nil {
			e.log.Warnw("cleanup failed", "cleanup", c.name, "error", err)
			continue
		}
		e.log.Debugw("cleanup done", "cleanup", c.name)
	}
}

func runCleanup(ctx context.Context, c cleanup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup panicked: %v", r)
		}
	}()
	return c.fn(ctx)
}
