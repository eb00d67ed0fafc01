// Package api exposes the article pipeline over HTTP: submit a video
// URL for processing, list and fetch stored articles, and inspect
// daemon status. Submissions are synchronous and single-flight per
// video; a duplicate submission while a run is active gets 409.
package api
