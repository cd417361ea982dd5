// Package gemini implements imagegen.Generator on top of the native Gemini
// API using the google.golang.org/genai SDK.
package gemini
