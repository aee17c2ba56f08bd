// This file is part of RedPlanet.
//
// RedPlanet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RedPlanet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RedPlanet.  If not, see <https://www.gnu.org/licenses/>.

// Package console attaches the host terminal to the machine's serial port.
// The controlling tty is switched into raw mode so that every keystroke
// reaches the UART immediately; the Write() side carries the UART's
// transmitted bytes back to the terminal.
//
// CleanUp() must be called before the process exits or the user's terminal
// is left in raw mode.
package console

import (
	"os"
	"time"

	"github.com/pkg/term"

	"github.com/jonatcln/redplanet/curated"
)

// the interval after which a pending read gives up. keeps the machine loop
// ticking while no key has been pressed.
const readTimeout = 10 * time.Millisecond

// Console is a raw-mode view of the controlling terminal. Implements the
// io.Writer interface for use as the UART's transmit side.
type Console struct {
	tty *term.Term
}

// NewConsole is the preferred method of initialisation for the Console
// type. The controlling terminal is put into raw mode.
func NewConsole() (*Console, error) {
	tty, err := term.Open("/dev/tty", term.RawMode, term.ReadTimeout(readTimeout))
	if err != nil {
		return nil, curated.Errorf("console: %v", err)
	}

	return &Console{tty: tty}, nil
}

// CleanUp restores the terminal to the state it was in before the console
// was created
func (c *Console) CleanUp() {
	_ = c.tty.Restore()
	_ = c.tty.Close()
}

// ReadByte returns the next keystroke. The second return value is false if
// no key was pressed within the polling interval.
func (c *Console) ReadByte() (uint8, bool) {
	b := make([]byte, 1)
	n, err := c.tty.Read(b)
	if err != nil || n != 1 {
		return 0, false
	}
	return b[0], true
}

// Write implements the io.Writer interface. Newlines are expanded to
// carriage-return/newline pairs, which the raw-mode terminal requires.
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			if _, err := os.Stdout.Write([]byte{'\r', '\n'}); err != nil {
				return 0, err
			}
			continue
		}
		if _, err := os.Stdout.Write([]byte{b}); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
