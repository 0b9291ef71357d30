// Package m3u parses extended M3U playlists as produced by IPTV providers:
// an optional #EXTM3U header, then #EXTINF lines carrying attributes and a
// display name, each followed by a stream URL line.
package m3u

import (
	"bufio"
	"io"
	"strings"
)

// Entry is one playlist item.
type Entry struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	GroupTitle string `json:"group_title"`
	Logo       string `json:"logo"`
}

// Parse reads a playlist and returns its entries. Lines that do not fit the
// #EXTINF/URL pattern are skipped; a playlist with no entries is not an
// error (the admin screen shows an empty list).
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	var pending *Entry

	scanner := bufio.NewScanner(r)
	// Stream URLs with long query strings can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || line == "#EXTM3U":
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			e := parseExtinf(strings.TrimPrefix(line, "#EXTINF:"))
			pending = &e
		case strings.HasPrefix(line, "#"):
			// Other directives (#EXTGRP etc.) are ignored.
			continue
		default:
			if pending == nil {
				continue
			}
			pending.URL = line
			entries = append(entries, *pending)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseExtinf splits `-1 tvg-logo="..." group-title="...",Display Name`
// into attributes and name. The name is everything after the last comma
// outside quotes.
func parseExtinf(s string) Entry {
	var e Entry

	attrs, name := splitAttrsName(s)
	e.Name = strings.TrimSpace(name)
	e.Logo = attrValue(attrs, "tvg-logo")
	e.GroupTitle = attrValue(attrs, "group-title")
	return e
}

func splitAttrsName(s string) (attrs, name string) {
	inQuotes := false
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

// attrValue extracts a key="value" attribute, or "" when absent.
func attrValue(attrs, key string) string {
	marker := key + `="`
	i := strings.Index(attrs, marker)
	if i < 0 {
		return ""
	}
	rest := attrs[i+len(marker):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}
