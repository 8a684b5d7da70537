// Package trakt reads the public trending, popular and anticipated lists
// from the Trakt API.
package trakt
