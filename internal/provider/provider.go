// Package provider contains the metadata source adapters (GnuDB, Discogs,
// MusicBrainz, and the tracklist HTML extractor).
//
// The Provider interface is defined in internal/metadata (metadata.Provider),
// following the Go convention of defining interfaces where they are consumed.
// Each sub-package here translates one provider-specific payload shape into
// the common metadata.Result; the merge engine never sees a raw payload.
package provider
