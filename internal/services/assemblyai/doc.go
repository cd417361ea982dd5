// Package assemblyai provides a client for the AssemblyAI transcription API.
//
// The flow is upload (local files only) -> submit -> poll. Client.Wait polls
// on a fixed interval until the job reaches "completed" or "error"; a failed
// job surfaces as *JobError and any non-2xx response as *StatusError carrying
// the remote body verbatim. Nothing is retried.
package assemblyai
