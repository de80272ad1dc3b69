// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cellbuf

import (
	"bufio"
	"fmt"
	"io"
)

func channel8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Render writes the buffer to w as truecolor ANSI, one line per cell row,
// resetting attributes at the end of every line. Cells with the zero glyph
// render as spaces.
func (b *Buffer) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			glyph := c.Glyph
			if glyph == 0 {
				glyph = ' '
			}
			fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c",
				channel8(c.Fg[0]), channel8(c.Fg[1]), channel8(c.Fg[2]),
				channel8(c.Bg[0]), channel8(c.Bg[1]), channel8(c.Bg[2]),
				glyph)
		}
		fmt.Fprint(bw, "\x1b[0m\n")
	}
	return bw.Flush()
}
