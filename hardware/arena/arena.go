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

package arena

import "fmt"

// Region is a handle to a block of allocator-backed storage. The zero value
// is not a valid handle.
type Region struct {
	idx int
	gen uint32
}

// Inspector is the read-only view of an allocator. Debugging accesses are
// given an Inspector rather than the full Allocator so they cannot disturb
// machine state.
type Inspector interface {
	// View returns the contents of the region. The returned slice must be
	// treated as read-only.
	View(r Region) []byte
}

// Allocator is the capability every device is written against. The caller
// must have exclusive access to the allocator for the duration of any
// mutating operation.
type Allocator interface {
	Inspector

	// Allocate returns a handle to a new zeroed region of the given size.
	Allocate(size int) Region

	// Free releases the region. The handle must not be used again.
	Free(r Region)

	// Mutate returns the contents of the region for modification.
	Mutate(r Region) []byte
}

// region is the arena's record of a single allocation. a region that has
// been freed keeps its slot (with data set to nil) so that stale handles
// can be detected by generation mismatch.
type region struct {
	data []byte
	gen  uint32
}

// Arena is the concrete Allocator used by the machine. It supports
// snapshotting of all live regions and rewinding to a previous snapshot.
type Arena struct {
	regions []region
	free    []int
	live    int
}

// NewArena is the preferred method of initialisation for the Arena type
func NewArena() *Arena {
	return &Arena{}
}

// Allocate implements the Allocator interface
func (a *Arena) Allocate(size int) Region {
	if size <= 0 {
		panic(fmt.Sprintf("arena: allocation of invalid size: %d", size))
	}

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.regions[idx].data = make([]byte, size)
	} else {
		idx = len(a.regions)
		a.regions = append(a.regions, region{data: make([]byte, size)})
	}

	a.live++
	return Region{idx: idx, gen: a.regions[idx].gen}
}

// Free implements the Allocator interface
func (a *Arena) Free(r Region) {
	a.check(r)
	a.regions[r.idx].data = nil
	a.regions[r.idx].gen++
	a.free = append(a.free, r.idx)
	a.live--
}

// Mutate implements the Allocator interface
func (a *Arena) Mutate(r Region) []byte {
	a.check(r)
	return a.regions[r.idx].data
}

// View implements the Inspector interface
func (a *Arena) View(r Region) []byte {
	a.check(r)
	return a.regions[r.idx].data
}

// Live returns the number of outstanding regions. A fully torn down machine
// leaves the arena with a live count of zero.
func (a *Arena) Live() int {
	return a.live
}

func (a *Arena) check(r Region) {
	if r.idx < 0 || r.idx >= len(a.regions) {
		panic(fmt.Sprintf("arena: use of invalid region handle: %d", r.idx))
	}
	if a.regions[r.idx].gen != r.gen || a.regions[r.idx].data == nil {
		panic(fmt.Sprintf("arena: use of freed region handle: %d", r.idx))
	}
}

// Snapshot contains a copy of every live region in the arena. It can be
// restored with the Plumb() function.
type Snapshot struct {
	regions []region
	free    []int
	live    int
}

// Snapshot creates a copy of the current arena contents
func (a *Arena) Snapshot() *Snapshot {
	s := &Snapshot{
		regions: make([]region, len(a.regions)),
		free:    make([]int, len(a.free)),
		live:    a.live,
	}

	for i := range a.regions {
		s.regions[i].gen = a.regions[i].gen
		if a.regions[i].data != nil {
			s.regions[i].data = make([]byte, len(a.regions[i].data))
			copy(s.regions[i].data, a.regions[i].data)
		}
	}
	copy(s.free, a.free)

	return s
}

// Plumb a previously snapshotted arena. The snapshot itself is left intact
// and can be plumbed again.
func (a *Arena) Plumb(s *Snapshot) {
	if s == nil {
		panic("arena: cannot plumb in a nil snapshot")
	}

	// copy the snapshot contents rather than aliasing them. we don't want
	// the machine to change what is stored in the snapshot
	a.regions = make([]region, len(s.regions))
	a.free = make([]int, len(s.free))
	a.live = s.live

	for i := range s.regions {
		a.regions[i].gen = s.regions[i].gen
		if s.regions[i].data != nil {
			a.regions[i].data = make([]byte, len(s.regions[i].data))
			copy(a.regions[i].data, s.regions[i].data)
		}
	}
	copy(a.free, s.free)
}
