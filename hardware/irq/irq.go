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

// Package irq defines the callback capability through which interrupt
// sources signal the platform interrupt controller.
//
// A source does not talk to the interrupt controller directly. It is handed
// a Callback bound to one interrupt line and raises or lowers that line
// through it. The callback holds a non-owning reference to the system bus:
// once the bus has been released, raising or lowering is a quiet no-op.
// This is expected during teardown and is not an error.
package irq

import (
	"github.com/jonatcln/redplanet/hardware/arena"
)

// Callback raises and lowers one interrupt line. Implementations are
// created by the system bus; see the memory package.
type Callback interface {
	// Raise the interrupt line. Does nothing if the bus is gone.
	Raise(a arena.Allocator)

	// Lower the interrupt line. Does nothing if the bus is gone.
	Lower(a arena.Allocator)
}
