// Package services holds the error taxonomy shared by the API clients under
// internal/services and the commands that drive them.
//
// Commands tag failures with Wrap and a sentinel marker; Classify maps any
// returned error (including the typed remote errors from the assemblyai and
// resend clients) onto a Kind so the CLI can print a matching hint.
package services
