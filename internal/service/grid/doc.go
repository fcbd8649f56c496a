// Package grid resolves a spot's market and air date to a programming
// schedule and finds the language blocks its window overlaps.
//
// The service layer here is deliberately thin: schedule selection is a
// prioritized lookup, and overlap is pure interval math over
// minutes-since-midnight. "Not found" is a value, never an error; the
// classifier downstream decides what a missing schedule or an empty
// overlap means for the spot.
package grid
