// Package runner executes probe cases against the Orange API.
//
// A probe is a strictly sequential chain: each case is sent, its response is
// read in full and reported, and only then is the next case issued. Cases
// that create an entity capture its data.id so later cases can address it.
// HTTP error statuses are reported like any other response; a transport
// error or timeout aborts the whole run.
package runner
