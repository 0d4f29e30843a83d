// Package fingerprint derives device fingerprints from HTTP requests for
// session hijack detection.
//
// Two tiers of fingerprint are produced. Generate hashes the load-bearing
// request traits (the full User-Agent) whose change within a session is
// treated as a compromise signal. Advisory hashes the Accept family of
// headers, which drift legitimately and are only worth recording for
// monitoring, never for enforcement. Keeping the tiers separate avoids
// logging users out because they switched their preferred language.
package fingerprint
