// Package model defines the data structures shared by the split pipeline.
//
// # Album
//
// Album is the release produced by a run, with computed output paths:
//
//	album := model.NewAlbum("Artist", "Live at the Roundhouse", thumbURL, published, pathConfig)
//	fmt.Println(album.Path)         // Where tracks are written
//	fmt.Println(album.PlaylistPath) // Where the playlist goes
//
// # Track
//
// Track is one output file cut from the recording:
//
//	track := model.NewTrack(album, 1, "Intro", model.Segment{Start: 0, End: 135, HasEnd: true}, trackConfig)
//	fmt.Println(track.Path) // ".../01 - Intro.mp3"
//
// # MediaMetadata
//
// MediaMetadata is what the fetcher reports about the source recording
// (title, channel, duration, thumbnail, views, publish date).
//
// Available path placeholders: {artist}, {album}, {title}, {tracknum}, {year}, {month}, {day}
package model
