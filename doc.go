// Package logging configures logging for the load-test harness.
//
// A Service, created once by main, owns a Registry of named loggers. Its
// Initialize method applies the harness setup:
//   - the HTTP client connection-pool logger is held at WARNING
//   - the root logger accepts everything from DEBUG up
//   - a file sink rotating at UTC midnight is attached to the root logger
//
// Records are written one per line:
//
//	2026-10-16 14:03:07 [INFO] harness.users : spawned 50 users
//
// Loggers form a dotted hierarchy ("harness.users" is a child of "harness").
// A logger without its own threshold inherits the nearest ancestor's, and
// records travel up to every sink attached along the way.
//
// Typical usage
//
//	svc := logging.NewService(logging.DefaultConfig())
//	svc.MustInitialize()
//	defer svc.Close()
//
//	log := svc.Logger("harness.users")
//	log.InfoWith().Int("users", n).Msg("spawned")
//	client := &http.Client{Transport: logging.NewTracingTransport(nil, svc.Registry)}
package logging
