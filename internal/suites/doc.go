// Package suites holds the probe suites run against a Cataloro deployment.
//
// Every suite registers its own users with unique names and e-mail addresses
// on example.com, so runs against the same deployment never collide. Data a
// suite creates is removed by its cleanups where the API allows it; users
// cannot be deleted and are left behind.
//
//	suite          tags                     admin
//	auth           smoke, auth
//	marketplace    smoke, marketplace
//	listings       marketplace
//	reviews        users
//	baskets        users, catalyst, admin   yes
//	notifications  users
//	admin          admin                    yes
//	export         admin                    yes
//	ads            admin                    yes
//	catalyst       admin, catalyst          yes
//	realtime       realtime
//
// The catalyst suite changes the price settings for a moment and restores
// them, so it should not run next to baskets with concurrency above one.
package suites
