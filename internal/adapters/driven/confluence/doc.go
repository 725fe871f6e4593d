// Package confluence implements the driven.PageStore port against a
// Confluence-style REST API.
//
// Every read and write is first attempted under a primary identity.
// The API reports "exists but inaccessible" as 404, indistinguishable
// from "does not exist", so a 404 is retried once under a secondary
// identity as a diagnostic/recovery path. A secondary success is used
// and the primary failure logged as a discrepancy; a double failure
// surfaces the primary's status and body, with the secondary attempt
// retained on the error.
package confluence
