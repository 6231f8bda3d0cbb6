package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// painter returns a color for w, disabled when w is not a terminal.
func painter(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if shouldColorize(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
