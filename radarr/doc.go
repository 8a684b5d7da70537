// Package radarr exposes upcoming releases and the movie library of a Radarr
// instance through golift.io/starr.
package radarr
