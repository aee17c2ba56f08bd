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

package memorymap

import (
	"fmt"
	"strings"
)

// Summary returns a single multiline string detailing all the areas in the
// map, vacant areas included. Useful for reference.
func (m *Map) Summary() string {
	s := strings.Builder{}

	var next uint32

	for _, e := range m.entries {
		if e.rng.Origin > next {
			s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", next, e.rng.Origin-1, Undefined))
		}
		s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", e.rng.Origin, e.rng.Memtop, e.res))

		if e.rng.Memtop == 0xffffffff {
			return s.String()
		}
		next = e.rng.Memtop + 1
	}

	s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", next, uint32(0xffffffff), Undefined))

	return s.String()
}
