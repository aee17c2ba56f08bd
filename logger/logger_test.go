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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jonatcln/redplanet/logger"
	"github.com/jonatcln/redplanet/test"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	logger.Log("test", "this is a test")
	logger.Logf("test", "this is test #%d", 2)

	s := &strings.Builder{}
	logger.Write(s)
	test.Equate(t, s.String(), "test: this is a test\ntest: this is test #2\n")
}

func TestRepeatFolding(t *testing.T) {
	logger.Clear()

	logger.Log("test", "same")
	logger.Log("test", "same")
	logger.Log("test", "same")

	s := &strings.Builder{}
	logger.Write(s)
	test.Equate(t, s.String(), "test: same (repeat x3)\n")
}

func TestTail(t *testing.T) {
	logger.Clear()

	logger.Log("test", "one")
	logger.Log("test", "two")
	logger.Log("test", "three")

	s := &strings.Builder{}
	logger.Tail(s, 2)
	test.Equate(t, s.String(), "test: two\ntest: three\n")

	s.Reset()
	logger.Tail(s, 100)
	test.Equate(t, s.String(), "test: one\ntest: two\ntest: three\n")
}
