// Package plex reads recently added media and library contents from a Plex
// Media Server using its JSON API.
package plex
