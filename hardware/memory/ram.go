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
	"github.com/jonatcln/redplanet/hardware/arena"
)

// RAM is a plain random-access memory device
type RAM struct {
	region arena.Region
}

// NewRAM is the preferred method of initialisation for the RAM type
func NewRAM(a arena.Allocator, size int) *RAM {
	return &RAM{region: a.Allocate(size)}
}

// Read implements the bus.Device interface
func (r *RAM) Read(buf []byte, a arena.Allocator, offset uint32) {
	copyOut(buf, a.View(r.region), offset)
}

// ReadDebug implements the bus.Device interface
func (r *RAM) ReadDebug(buf []byte, a arena.Inspector, offset uint32) {
	copyOut(buf, a.View(r.region), offset)
}

// Write implements the bus.Device interface
func (r *RAM) Write(a arena.Allocator, offset uint32, buf []byte) {
	copyIn(a.Mutate(r.region), offset, buf)
}

// Release implements the bus.Device interface
func (r *RAM) Release(a arena.Allocator) {
	a.Free(r.region)
}

// copyOut copies device storage into an access buffer. The bus guarantees
// the access is contained in the device's range; if the device's storage is
// smaller than its range, bytes beyond the storage are left as they are.
func copyOut(buf []byte, data []byte, offset uint32) {
	if int64(offset) >= int64(len(data)) {
		return
	}
	copy(buf, data[offset:])
}

// copyIn copies an access buffer into device storage, clamped to the
// storage in the same way as copyOut
func copyIn(data []byte, offset uint32, buf []byte) {
	if int64(offset) >= int64(len(data)) {
		return
	}
	copy(data[offset:], buf)
}
