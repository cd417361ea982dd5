// Package imagegateway implements imagegen.Generator against an
// OpenAI-compatible chat completions gateway using openai-go. Image options
// ride along as extra JSON body fields, and images come back embedded in the
// message content behind an "[inlineData]:" marker.
package imagegateway
