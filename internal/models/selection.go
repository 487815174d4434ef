package models

// SelectVideos picks the most-viewed and the latest video in one pass.
//
// The running maxima are only replaced on a strict ">" comparison, so the
// first record reaching a maximum wins ties. Publish times are compared as
// strings; RFC 3339 values from the API share one layout and offset.
func SelectVideos(records []VideoRecord) (Selection, error) {
	if len(records) == 0 {
		return Selection{}, NewError(KindEmptyResult, "select videos", ErrNoVideos)
	}

	mostViewed, latest := records[0], records[0]
	for _, r := range records[1:] {
		if r.ViewCount > mostViewed.ViewCount {
			mostViewed = r
		}
		if r.PublishedAt > latest.PublishedAt {
			latest = r
		}
	}

	return Selection{Latest: latest, MostViewed: mostViewed}, nil
}
