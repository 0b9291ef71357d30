package m3u

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlaylist = `#EXTM3U
#EXTINF:-1 tvg-logo="https://cdn.example.com/one.png" group-title="News",Channel One
http://stream.example.com/one.m3u8
#EXTINF:-1 group-title="Sports",Channel Two
http://stream.example.com/two.m3u8
#EXTGRP:ignored
#EXTINF:-1,Plain Channel
http://stream.example.com/three.m3u8
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(samplePlaylist))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Channel One", entries[0].Name)
	assert.Equal(t, "http://stream.example.com/one.m3u8", entries[0].URL)
	assert.Equal(t, "News", entries[0].GroupTitle)
	assert.Equal(t, "https://cdn.example.com/one.png", entries[0].Logo)

	assert.Equal(t, "Channel Two", entries[1].Name)
	assert.Equal(t, "Sports", entries[1].GroupTitle)
	assert.Empty(t, entries[1].Logo)

	assert.Equal(t, "Plain Channel", entries[2].Name)
	assert.Empty(t, entries[2].GroupTitle)
}

func TestParse_NameWithCommaInAttr(t *testing.T) {
	in := `#EXTINF:-1 group-title="News, World",World News
http://stream.example.com/world.m3u8
`
	entries, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "World News", entries[0].Name)
	assert.Equal(t, "News, World", entries[0].GroupTitle)
}

func TestParse_URLWithoutExtinf(t *testing.T) {
	in := "http://stream.example.com/orphan.m3u8\n#EXTINF:-1,Ok\nhttp://stream.example.com/ok.m3u8\n"
	entries, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ok", entries[0].Name)
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse(strings.NewReader("#EXTM3U\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePlaylist))
	}))
	defer srv.Close()

	entries, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
