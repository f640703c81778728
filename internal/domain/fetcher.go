package domain

import "context"

// DocumentFetcher retrieves the merged acoustic document of a MusicBrainz
// recording. An unknown recording yields an empty document and no error.
type DocumentFetcher interface {
	Fetch(ctx context.Context, mbid string) (Document, error)
}
