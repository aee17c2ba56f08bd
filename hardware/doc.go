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

// Package hardware assembles the simulated machine: the arena every piece
// of machine state lives in, the memory map, the devices and the system
// bus that routes accesses between them.
//
// Everything in this package and below is synchronous and single-threaded.
// There is no internal concurrency and nothing blocks; a single driver
// steps the whole machine and is responsible for serialising all access to
// the allocator.
package hardware
