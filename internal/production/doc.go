// Package production provides integrations around a running machine:
// snapshot encoding, chart export and loading, and listener feeds.
package production
