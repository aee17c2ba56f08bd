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

// Package memorymap divides the 32-bit physical address space into ranges,
// each range optionally associated with one of the resources attached to
// the system bus.
//
// The map is total: every address falls into exactly one range. Addresses
// not covered by an Add() call fall into a vacant range, identified by the
// Undefined resource. Accesses to vacant ranges are inert at the bus level.
//
// The map is populated during board construction and is never mutated
// afterwards. Lookup() is the forward query used on every bus access;
// Origin() is the reverse query, from resource to the start of its range.
package memorymap
