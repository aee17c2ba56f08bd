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

// Package arena provides the backing storage for every device in the
// machine. Devices do not hold their state in ordinary Go values; they hold
// a Region handle and thread an Allocator through every operation. Keeping
// all machine state behind one allocator is what makes whole-machine
// snapshot and rewind possible: Snapshot() captures everything, Plumb()
// puts it back.
//
// The Allocator and Inspector interfaces are the capability the rest of the
// hardware package is written against. Inspector is the read-only subset
// and is all that debugging accesses are given, guaranteeing they cannot
// change machine state.
//
// Handle misuse (freeing a region twice, using a freed region) is a
// programming error and panics. It is never reported as an error value.
package arena
