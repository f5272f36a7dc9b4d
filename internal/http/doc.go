// Package http exposes the admin API: exclusion rule management, translation
// record maintenance, literal catalogs, on-demand translation, and manual
// reconciliation runs.
package http
