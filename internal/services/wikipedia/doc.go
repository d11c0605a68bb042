// Package wikipedia fetches random historical events from the Wikipedia REST
// API.
//
// The client never fails: any transport error or non-200 response falls back
// to a fixed set of well-known historical events so a job always has content
// to work with. Years are inferred from the extract text and reported as
// "Unknown" when no plausible year is found.
package wikipedia
