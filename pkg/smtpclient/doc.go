// Package smtpclient is a minimal raw SMTP submission client over implicit
// TLS (SMTPS). It drives exactly one linear command/response exchange per
// session: connect, EHLO, AUTH LOGIN, MAIL FROM, RCPT TO, DATA, QUIT.
//
// The client is an explicit state machine. Every operation checks the
// session state first and fails fast with ErrNotConnected when called out
// of order, so a missing Connect or Authenticate surfaces as a precise
// error instead of an ambiguous transport failure.
//
// Server responses may span multiple lines and multiple socket reads; a
// response is complete once a line matching `^\d{3} ` (digit triple, then a
// space) arrives. Each read is bounded by a deadline and the number of
// reads per response is capped, so a stalled peer cannot hang a session
// forever.
//
// The package never decides retry policy. It reports typed outcomes
// (ErrConnect, ErrAuth, ErrProtocol, *RejectError) and leaves the
// retry-or-give-up decision to the caller.
package smtpclient
