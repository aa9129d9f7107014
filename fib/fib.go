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

// Package fib implements the neighbor table (Forwarding Information
// Base): reachable peers discovered and aged via HELLO/HELLO_ACK.
package fib

import (
	"crypto/rsa"

	"github.com/Anupal/distributed-ndn/util"
)

// Entry is a single FIB row: a reachable peer's transport endpoint,
// current public key, opaque certificate bytes, and its aging counter.
type Entry struct {
	Label      int
	Host       string
	Port       int
	Cert       []byte
	PeerPub    *rsa.PublicKey
	HelloCount int
}

// FIB is the thread-safe neighbor table. Entries are created and
// refreshed by ObserveHello and aged out by Tick, adapted from the
// teacher's generic util.Map idiom (one Map instance per table instead
// of one per DHT bucket).
type FIB struct {
	entries       *util.Map[int, *Entry]
	maxHelloCount int
}

// New creates an empty FIB; maxHelloCount bounds the aging counter
// (MAX_HELLO_COUNT).
func New(maxHelloCount int) *FIB {
	return &FIB{
		entries:       util.NewMap[int, *Entry](),
		maxHelloCount: maxHelloCount,
	}
}

// ObserveHello creates or refreshes the entry for label: hello-count is
// bumped (capped at maxHelloCount) and the stored peer public key is
// replaced with the most recent one to tolerate key rotation.
func (f *FIB) ObserveHello(label int, host string, port int, cert []byte, peerPub *rsa.PublicKey) {
	_ = f.entries.Process(func(pid int) error {
		e, ok := f.entries.Get(label, pid)
		if !ok {
			e = &Entry{Label: label}
		}
		e.Host = host
		e.Port = port
		e.Cert = cert
		e.PeerPub = peerPub
		if e.HelloCount < f.maxHelloCount {
			e.HelloCount++
		}
		f.entries.Put(label, e, pid)
		return nil
	}, false)
}

// Tick decrements every entry's hello-count by one and evicts any entry
// that reaches zero. ProcessRange already holds the map's write lock for
// the full pass, so dead labels are collected here and deleted in a
// second, separate pass once that lock has been released -- nesting a
// second Process/ProcessRange call inside the first would try to lock
// the table's non-reentrant mutex again and deadlock.
func (f *FIB) Tick() {
	var dead []int
	_ = f.entries.ProcessRange(func(label int, e *Entry, _ int) error {
		e.HelloCount--
		if e.HelloCount <= 0 {
			dead = append(dead, label)
		}
		return nil
	}, false)
	for _, label := range dead {
		f.entries.Delete(label, 0)
	}
}

// Contains reports whether label currently has a live FIB entry.
func (f *FIB) Contains(label int) bool {
	_, ok := f.entries.Get(label, 0)
	return ok
}

// Get returns the entry for label, if present.
func (f *FIB) Get(label int) (*Entry, bool) {
	return f.entries.Get(label, 0)
}

// Snapshot returns a point-in-time copy of every entry, safe to iterate
// after releasing the table lock -- fan-out over this slice MUST NOT
// hold the FIB lock while performing blocking TCP sends.
func (f *FIB) Snapshot() []*Entry {
	var out []*Entry
	_ = f.entries.ProcessRange(func(_ int, e *Entry, _ int) error {
		cp := *e
		out = append(out, &cp)
		return nil
	}, true)
	return out
}

// SnapshotExcept is Snapshot filtered to exclude one label -- the
// common fan-out-to-every-neighbor-but-the-sender shape used when
// forwarding an INTEREST.
func (f *FIB) SnapshotExcept(exclude int) []*Entry {
	all := f.Snapshot()
	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if e.Label != exclude {
			out = append(out, e)
		}
	}
	return out
}
