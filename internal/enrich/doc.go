// Package enrich resolves missing top-list detail text.
//
// One pass runs after every top-list change and at startup: for each ranked
// entry without a cached detail, it issues a single range query anchored at
// the entry's id, scans the batch for the exact id and stores the stripped
// body. Failures are logged and retried only on the next pass.
package enrich
