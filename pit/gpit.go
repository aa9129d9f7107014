// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
//
// gnunet-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnunet-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package pit

import "github.com/Anupal/distributed-ndn/util"

// GatewayEntry records, for a name tunneled across the gateway bridge,
// who to deliver the resulting DATA to once the EG_REPLY arrives.
type GatewayEntry struct {
	RID      string
	Retry    int
	Upstream int
}

// GPIT is the Gateway PIT: keyed by data-name alone (one in-flight
// gateway tunnel per name at a time).
type GPIT struct {
	entries *util.Map[string, GatewayEntry]
}

// NewGPIT creates an empty Gateway PIT.
func NewGPIT() *GPIT {
	return &GPIT{entries: util.NewMap[string, GatewayEntry]()}
}

// Contains reports whether name currently has a pending gateway tunnel.
func (g *GPIT) Contains(name string) bool {
	_, ok := g.entries.Get(name, 0)
	return ok
}

// Get returns the gateway entry for name without removing it, so
// callers can check rid/retry match before deciding to Take.
func (g *GPIT) Get(name string) (GatewayEntry, bool) {
	return g.entries.Get(name, 0)
}

// Insert records a gateway tunnel for name.
func (g *GPIT) Insert(name string, e GatewayEntry) {
	g.entries.Put(name, e, 0)
}

// Take atomically returns and removes the gateway entry for name.
func (g *GPIT) Take(name string) (e GatewayEntry, ok bool) {
	_ = g.entries.Process(func(pid int) error {
		e, ok = g.entries.Get(name, pid)
		if ok {
			g.entries.Delete(name, pid)
		}
		return nil
	}, false)
	return
}
