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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertRejectsDuplicateKey(t *testing.T) {
	p := New()
	k := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 0}

	assert.True(t, p.Insert(k, 7))
	assert.False(t, p.Insert(k, 9))

	upstream, ok := p.Take(k)
	assert.True(t, ok)
	assert.Equal(t, 7, upstream)
}

func TestTakeRemovesEntry(t *testing.T) {
	p := New()
	k := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 0}
	p.Insert(k, 3)

	_, ok := p.Take(k)
	assert.True(t, ok)

	_, ok = p.Take(k)
	assert.False(t, ok)
}

func TestContainsReflectsState(t *testing.T) {
	p := New()
	k := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 0}
	assert.False(t, p.Contains(k))
	p.Insert(k, 1)
	assert.True(t, p.Contains(k))
}

func TestDifferentRetryIsDistinctKey(t *testing.T) {
	p := New()
	k0 := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 0}
	k1 := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 1}

	assert.True(t, p.Insert(k0, 1))
	assert.True(t, p.Insert(k1, 1))
	assert.Equal(t, 2, p.Size())
}

func TestSnapshotListsAllPendingEntries(t *testing.T) {
	p := New()
	k0 := Key{Name: "/sensor/1/ecg", RID: "ab3F9", Retry: 0}
	k1 := Key{Name: "/sensor/1/spo2", RID: "zz9Q1", Retry: 2}
	p.Insert(k0, 1)
	p.Insert(k1, 4)

	snap := p.Snapshot()
	assert.Len(t, snap, 2)

	p.Take(k0)
	assert.Len(t, p.Snapshot(), 1)
}
