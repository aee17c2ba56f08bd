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

package memory

import (
	"github.com/jonatcln/redplanet/curated"
	"github.com/jonatcln/redplanet/hardware/arena"
)

// ROM is a read-only memory device. It backs both the boot ROM and the
// flash area of the machine. Writes reaching the device are dropped.
type ROM struct {
	region arena.Region
}

// NewROM is the preferred method of initialisation for the ROM type. The
// image is copied into the start of the device; the remainder reads as
// zero.
func NewROM(a arena.Allocator, size int, image []byte) (*ROM, error) {
	if len(image) > size {
		return nil, curated.Errorf("rom: image of %d bytes does not fit in %d bytes", len(image), size)
	}

	r := &ROM{region: a.Allocate(size)}
	copy(a.Mutate(r.region), image)

	return r, nil
}

// Read implements the bus.Device interface
func (r *ROM) Read(buf []byte, a arena.Allocator, offset uint32) {
	copyOut(buf, a.View(r.region), offset)
}

// ReadDebug implements the bus.Device interface
func (r *ROM) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
	copyOut(buf, a.View(r.region), offset)
}

// Write implements the bus.Device interface. The ROM drops every write.
func (r *ROM) Write(a arena.Allocator, offset uint32, buf []byte) {
}

// Release implements the bus.Device interface
func (r *ROM) Release(a arena.Allocator) {
	a.Free(r.region)
}
