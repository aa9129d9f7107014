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

// Package pit implements the Pending Interest Table: outstanding
// interests keyed by (data-name, request-id, retry-index), and the
// Gateway PIT keyed by data-name alone.
package pit

import (
	"fmt"

	"github.com/Anupal/distributed-ndn/util"
)

// Key identifies one outstanding INTEREST. The key deliberately stays
// exactly (name, rid, retry) -- not widened to include the originator
// label -- to preserve wire compatibility; the resulting collision risk
// across distinct originating clients sharing a request-id is accepted
// as in the source (Design Notes open question (d)).
type Key struct {
	Name  string
	RID   string
	Retry int
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%d", k.Name, k.RID, k.Retry)
}

// PIT is the thread-safe pending-interest table.
type PIT struct {
	entries *util.Map[Key, int]
}

// New creates an empty PIT.
func New() *PIT {
	return &PIT{entries: util.NewMap[Key, int]()}
}

// Contains reports whether key currently has a pending entry.
func (p *PIT) Contains(key Key) bool {
	_, ok := p.entries.Get(key, 0)
	return ok
}

// Insert records upstream as the neighbor that delivered this INTEREST.
// It reports false without mutating the table if key is already
// present (duplicate INTEREST).
func (p *PIT) Insert(key Key, upstream int) (inserted bool) {
	_ = p.entries.Process(func(pid int) error {
		if _, ok := p.entries.Get(key, pid); ok {
			inserted = false
			return nil
		}
		p.entries.Put(key, upstream, pid)
		inserted = true
		return nil
	}, false)
	return
}

// Take atomically returns and removes the upstream label for key, in a
// single critical section -- replacing the source's non-atomic
// read-then-delete (Design Notes open question (c)).
func (p *PIT) Take(key Key) (upstream int, ok bool) {
	_ = p.entries.Process(func(pid int) error {
		upstream, ok = p.entries.Get(key, pid)
		if ok {
			p.entries.Delete(key, pid)
		}
		return nil
	}, false)
	return
}

// Size returns the number of pending entries.
func (p *PIT) Size() int {
	return p.entries.Size()
}

// Entry is one point-in-time PIT row, shaped for the persisted-snapshot
// document (spec §6): {name, rid, retry, upstream-label}.
type Entry struct {
	Key      Key
	Upstream int
}

// Snapshot returns every pending entry at the time of the call.
func (p *PIT) Snapshot() []Entry {
	var out []Entry
	_ = p.entries.ProcessRange(func(key Key, upstream int, _ int) error {
		out = append(out, Entry{Key: key, Upstream: upstream})
		return nil
	}, true)
	return out
}
