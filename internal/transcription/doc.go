// Package transcription validates audio inputs, drives the AssemblyAI job
// flow, and renders completed transcripts as plain text, speaker-diarized
// blocks, SRT subtitles or JSON.
//
// Diarized blocks read "[M:SS] Speaker A: text" (H:MM:SS past the first hour)
// separated by blank lines; SRT cues carry "Speaker A: " prefixes. Both fall
// back to the plain transcript text when the job produced no utterances.
package transcription
