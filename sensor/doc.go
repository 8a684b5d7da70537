// Package sensor turns provider lists into named, polled sensors. A cycle
// fetches and normalizes a list, resolves posters, filters, dedupes and
// truncates it; a failed cycle keeps the previous list.
package sensor
