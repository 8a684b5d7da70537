// Package library keeps a snapshot of what the configured Plex, Jellyfin,
// Sonarr and Radarr instances already hold, so discovery sensors can hide
// titles the user owns.
package library
