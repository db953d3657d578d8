// Package log builds the application's slog loggers.
//
// Every logger returned by NewLogger is wrapped in a RedactHandler, which
// masks sensitive information before it reaches the output:
//   - attributes with sensitive names (cookie, authorization, token, ...)
//   - values that look like credentials (bearer tokens, JWTs, private keys)
//   - userinfo and sensitive query parameters of URLs inside string and
//     error values
//
// Site configurations may carry cookies and authorization headers, and
// crawled links may carry session tokens in their query strings, so the
// redaction applies in verbose mode as well.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, false)
//	slog.SetDefault(logger)
package log
