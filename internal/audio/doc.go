// Package audio cuts, tags and lists the output tracks.
//
// # Splitting
//
// The Splitter runs ffmpeg once per track, seeking to the segment start and
// re-encoding to MP3:
//
//	splitter := audio.NewSplitter("ffmpeg", logger)
//	err := splitter.Split(ctx, sourcePath, track.Segment, track.Path)
//
// A failed or cancelled cut never leaves a partial file behind.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to MP3 files:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.Tag(track.Path, track.Tags(coverJPEG))
//
// The tagger supports:
//   - Artist, Album Artist
//   - Album Title, Track Title
//   - Track Number ("3/12"), Year
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(album, written)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
