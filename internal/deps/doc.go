// Package deps checks that the external tools a run relies on are installed.
package deps
