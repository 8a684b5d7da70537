// Package jellyfin reads a user's latest items and library from a Jellyfin server.
package jellyfin
