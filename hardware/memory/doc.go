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

// Package memory implements the system bus of the machine: the crossbar
// that owns every device, maps the 32-bit physical address space onto them
// and routes accesses.
//
// An access is a physical address paired with a size (the length of the
// buffer being read or written). The access is forwarded to a device if and
// only if the whole of the addressed span falls inside the device's range
// in the memory map. Anything else - a vacant range, a zero size, a span
// crossing the end of a range - makes the access completely inert: no
// device is touched, no buffer byte is modified and no error is reported.
// This is how a real bus treats a stray transaction.
//
// The Accepts() predicate additionally applies the per-device size and
// direction rules and tells a caller whether an access is admissible.
// Read(), Write() and ReadDebug() do not consult those rules themselves;
// they forward on range containment alone, and a device presented with an
// access it does not like performs its own quiet no-op.
//
// The simpler devices (ROM, RAM, the power-down latch) live in this
// package. The CLINT, PLIC and UART have packages of their own.
package memory
