// Package log provides secure logging built on top of the standard slog
// package.
//
// Students paste scholarship messages that often carry their own Aadhaar
// number, PAN, phone number or email address. Scan logs must never keep
// those, even in verbose mode, so every logger created here wraps its
// handler in a SecureHandler:
//   - Attributes named content, text, email, phone, aadhaar, pan and
//     similar are masked entirely
//   - Aadhaar numbers, PANs, emails and mobile numbers found inside any
//     other string value, error or the message are masked in place
//   - Bearer, basic and JWT credentials are masked entirely
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("could not load dataset", "source", path, "error", err)
//	slog.SetDefault(logger)
package log
