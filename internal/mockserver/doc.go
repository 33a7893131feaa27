// Package mockserver provides an in-process fake of the Cataloro marketplace
// backend. It answers the same routes the probe suites call so that the suites
// can run offline and inside the test suite.
//
// Data lives in memory only and is lost when the server stops.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                        Mock Backend                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request logging, "mock_http")           │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery)                │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                        Router (/api)                          │
//	│  ┌──────────────┐ ┌──────────────┐ ┌───────────────────────┐  │
//	│  │ public       │ │ requireAuth  │ │ requireAuth           │  │
//	│  │ health       │ │ listings     │ │ + requireAdmin        │  │
//	│  │ auth         │ │ tenders      │ │ users, ads, export,   │  │
//	│  │ browse       │ │ reviews      │ │ catalyst              │  │
//	│  │              │ │ baskets      │ │                       │  │
//	│  └──────────────┘ └──────────────┘ └───────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /ws/notifications/:id  ──►  hub  ──►  subscriber sockets     │
//	└───────────────────────────────────────────────────────────────┘
//
// # Authentication
//
// Login issues an HS256 JWT whose subject is the user id. Protected routes
// accept the token as a Bearer header or as a "token" query parameter (the
// websocket route needs the latter for browser clients). Suspended users get
// 403 on every protected route.
//
// Routes under /api/user/:id are restricted to the user themselves, except
// for admins. One admin account is seeded from Options at startup.
//
// # Errors
//
// Every error response has the shape
//
//	{"detail": "<message>"}
//
// with 400 for rule violations (duplicate email, own listing, low tender),
// 401/403 for auth, 404 for unknown ids and 422 for malformed payloads.
//
// # Notifications
//
// Creating a notification, or placing a tender on someone's listing, stores
// the notification and publishes
//
//	{"type": "notification", "notification": {...}}
//
// to every socket the recipient has open. Slow sockets drop messages.
//
// # Lifecycle
//
//	srv, err := mockserver.NewServer(mockserver.Options{...})
//	go srv.Start()
//	defer srv.Stop(ctx)
//
// Tests usually skip Start and wrap Handler() in httptest.NewServer.
package mockserver
