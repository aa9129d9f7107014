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

// Package forwarding implements the NDN forwarding engine: INTEREST and
// DATA state machines, the HELLO clock, and the gateway bridge.
package forwarding

import (
	"time"

	"github.com/Anupal/distributed-ndn/util"
)

// OriginatorKey identifies one origination attempt by this node.
type OriginatorKey struct {
	Name string
	RID  string
}

// OriginatorState tracks whether a locally-originated INTEREST has been
// answered yet, and when it was started (for round-trip timing).
type OriginatorState struct {
	Answered  bool
	StartedAt util.AbsoluteTime
}

// OriginatorTable is the thread-safe table of in-flight local
// originations.
type OriginatorTable struct {
	entries *util.Map[OriginatorKey, *OriginatorState]
}

// NewOriginatorTable creates an empty table.
func NewOriginatorTable() *OriginatorTable {
	return &OriginatorTable{entries: util.NewMap[OriginatorKey, *OriginatorState]()}
}

// Start records that this node has just originated (name, rid).
func (o *OriginatorTable) Start(key OriginatorKey) {
	o.entries.Put(key, &OriginatorState{StartedAt: util.AbsoluteTimeNow()}, 0)
}

// Get returns the originator state for key, if this node originated it.
func (o *OriginatorTable) Get(key OriginatorKey) (*OriginatorState, bool) {
	return o.entries.Get(key, 0)
}

// MarkAnswered flips answered true on first matching DATA and returns
// the elapsed round-trip time; subsequent calls for the same key are a
// no-op and report answered=false so callers don't re-surface the
// payload (I5 / §4.10 OriginatorTable state machine).
func (o *OriginatorTable) MarkAnswered(key OriginatorKey) (elapsed time.Duration, ok bool) {
	_ = o.entries.Process(func(pid int) error {
		st, present := o.entries.Get(key, pid)
		if !present || st.Answered {
			ok = false
			return nil
		}
		st.Answered = true
		elapsed = st.StartedAt.Since()
		ok = true
		return nil
	}, false)
	return
}
