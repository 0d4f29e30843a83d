// Package authcore provides cache-backed browser sessions with hijack
// protection, CSRF tokens, dual token/session authentication
// resolution, rate limiting, and a security and performance monitor.
//
// The packages under pkg compose through small interfaces and are
// usable on their own; Service ties them together and runs
// their background tasks:
//
//	store := session.NewRedisStore(client)
//	cookies, _ := cookie.New([]string{secret})
//	mon := monitor.New()
//	sessions := session.NewManager(store, cookies, session.WithReporter(mon))
//	resolver := authflow.NewResolver(jwtValidator, sessions,
//		authflow.WithAuditor(mon),
//		authflow.WithRateLimiter(limiter, ratelimiter.Composite(
//			ratelimiter.ByClientIP, ratelimiter.ByEndpoint)),
//	)
//	svc := authcore.New(sessions, resolver, mon)
//	go svc.Run(ctx)
//
//	mux.Handle("/app/", authflow.Middleware(resolver)(appHandler))
package authcore
