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

package fib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupal/distributed-ndn/crypto"
)

func TestObserveHelloCreatesEntry(t *testing.T) {
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	f := New(5)
	f.ObserveHello(1, "127.0.0.1", 9001, []byte("cert"), &priv.PublicKey)

	e, ok := f.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, e.HelloCount)
	assert.True(t, f.Contains(1))
}

func TestObserveHelloSaturatesAtMaxHelloCount(t *testing.T) {
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	f := New(3)
	for i := 0; i < 10; i++ {
		f.ObserveHello(1, "127.0.0.1", 9001, []byte("cert"), &priv.PublicKey)
	}
	e, ok := f.Get(1)
	require.True(t, ok)
	assert.Equal(t, 3, e.HelloCount)
}

func TestObserveHelloReplacesKeyOnRotation(t *testing.T) {
	priv1, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	priv2, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	f := New(5)
	f.ObserveHello(1, "127.0.0.1", 9001, []byte("cert"), &priv1.PublicKey)
	f.ObserveHello(1, "127.0.0.1", 9001, []byte("cert"), &priv2.PublicKey)

	e, ok := f.Get(1)
	require.True(t, ok)
	assert.True(t, e.PeerPub.Equal(&priv2.PublicKey))
}

func TestTickEvictsAfterMaxHelloCountTicksWithNoRefresh(t *testing.T) {
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	// steady-state HELLO traffic ramps hello-count up to the cap; once it
	// stops, the entry survives exactly MaxHelloCount ticks before eviction.
	f := New(3)
	for i := 0; i < 3; i++ {
		f.ObserveHello(1, "127.0.0.1", 9001, []byte("cert"), &priv.PublicKey)
	}
	e, ok := f.Get(1)
	require.True(t, ok)
	require.Equal(t, 3, e.HelloCount)

	f.Tick()
	assert.True(t, f.Contains(1))

	f.Tick()
	assert.True(t, f.Contains(1))

	f.Tick()
	assert.False(t, f.Contains(1))
}

func TestSnapshotExceptFiltersSender(t *testing.T) {
	priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	f := New(5)
	f.ObserveHello(1, "h", 1, nil, &priv.PublicKey)
	f.ObserveHello(2, "h", 2, nil, &priv.PublicKey)
	f.ObserveHello(3, "h", 3, nil, &priv.PublicKey)

	snap := f.SnapshotExcept(2)
	labels := map[int]bool{}
	for _, e := range snap {
		labels[e.Label] = true
	}
	assert.True(t, labels[1])
	assert.True(t, labels[3])
	assert.False(t, labels[2])
}
