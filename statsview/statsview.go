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

//go:build statsview
// +build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/jonatcln/redplanet/logger"
)

// Address of the runtime statistics server. The /debug/statsview page
// serves the charts.
const Address = "localhost:12667"

// Launch the runtime statistics server on a new goroutine. The server runs
// for the remainder of the process. Where the server listens is noted in
// the central log.
func Launch() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		statsview.New().Start()
	}()

	logger.Logf("statsview", "serving at http://%s/debug/statsview", Address)
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
