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

// Package statsview serves runtime statistics over a local HTTP server.
// It is only built when the statsview build constraint is present; without
// the constraint Launch() is a stub and Available() returns false.
//
// With the constraint, Launch() starts the server provided by
// "github.com/go-echarts/statsview". Charts are then viewable at
//
//	localhost:12667/debug/statsview
//
// and the standard Go pprof endpoints at
//
//	localhost:12667/debug/pprof/
package statsview
