// Command bootleg splits a recorded live set into tagged MP3 tracks from
// the command line. See bootleg-tui for the interactive version.
package main
