// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write data atomically
//	err := ioutils.WriteFile(ctx, "/path/to/playlist.m3u", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Drop a half-written track after cancellation
//	err := ioutils.RemoveIfExists("/music/Artist/Album/03 - Song.mp3")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService turns video thumbnails into cover art:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, thumbnail, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, webpData)
package ioutils
