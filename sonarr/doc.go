// Package sonarr exposes upcoming episodes and the series library of a Sonarr
// instance through golift.io/starr.
package sonarr
