// Package config loads, normalizes, and validates skillbox configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours environment
// fallbacks such as ASSEMBLYAI_API_KEY, GEMINI_API_KEY and RESEND_API_KEY.
// The Config type centralizes every knob the CLI needs so API credentials and
// endpoints are discovered in one pass.
//
// Credentials are optional at load time; each command calls the matching
// Require* helper so a missing key surfaces as ErrMissingCredential only for
// the utility that needs it.
package config
