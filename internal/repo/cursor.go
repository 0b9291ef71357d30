package repo

// Cursor pagination convention, shared by the video, user, category, and
// article list queries:
//
//   - the client sends the id of the last row of the previous page (lastId);
//   - the repo resolves that id to its ordering-column value with a separate
//     lookup, then selects rows strictly beyond that value in page order;
//   - a lastId whose row has since been deleted yields an empty page rather
//     than relying on SQL NULL-comparison semantics.
//
// hasMore reports whether a page of n rows fetched with the given limit
// should advertise a next page. A full page is assumed to have a successor,
// which is wrong when the table ends exactly at the page boundary; callers
// depend on this approximation, so keep it.
func hasMore(n, limit int) bool {
	return n == limit
}

// pageLastID returns the cursor for the next request: the last id of the
// page, or nil for an empty page.
func pageLastID(ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	last := ids[len(ids)-1]
	return &last
}
