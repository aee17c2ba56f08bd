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

package bus

import (
	"github.com/jonatcln/redplanet/hardware/arena"
)

// AccessType distinguishes the direction of a bus access
type AccessType int

func (t AccessType) String() string {
	if t == Write {
		return "write"
	}
	return "read"
}

// The two access directions
const (
	Read AccessType = iota
	Write
)

// Device defines the operations every device attached to the system bus
// must provide. Addresses are device-local: the bus translates the physical
// address into an offset relative to the origin of the device's range
// before forwarding.
//
// Read and Write never fail. A device that cannot honour an access at the
// given offset simply does nothing, as real hardware drops a transaction it
// does not recognise.
type Device interface {
	// Read fills buf with the device's state starting at offset.
	Read(buf []byte, a arena.Allocator, offset uint32)

	// Write updates the device's state at offset from buf.
	Write(a arena.Allocator, offset uint32, buf []byte)

	DebugDevice
	Releaser
}

// DebugDevice is the capability required for debugging accesses. Think of
// ReadDebug as an operation outside of the normal operation of the machine:
// it observes device state but must not perturb it. In particular it must
// not trigger the side effects a normal Read has (consuming a FIFO entry,
// clearing a pending flag) which is why it is only given the read-only view
// of the allocator.
type DebugDevice interface {
	ReadDebug(buf []byte, a arena.Inspector, offset uint32)
}

// Releaser is the capability for explicit teardown. Release hands every
// arena region the device holds back to the allocator. The device must not
// be used afterwards.
type Releaser interface {
	Release(a arena.Allocator)
}
