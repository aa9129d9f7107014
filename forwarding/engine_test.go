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

package forwarding

import (
	"crypto/rsa"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupal/distributed-ndn/crypto"
	"github.com/Anupal/distributed-ndn/message"
)

// fakeSender routes Send calls directly into in-memory engines keyed by
// (host, port), so tests can exercise multi-node scenarios without real
// TCP sockets. Sending to an unregistered address is a silent no-op,
// mirroring a real connect failure.
type fakeSender struct {
	mu     sync.Mutex
	byAddr map[string]*Engine
}

func newFakeSender() *fakeSender {
	return &fakeSender{byAddr: make(map[string]*Engine)}
}

func (s *fakeSender) register(host string, port int, e *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAddr[addrKey(host, port)] = e
}

func (s *fakeSender) Send(host string, port int, frame string) error {
	s.mu.Lock()
	e, ok := s.byAddr[addrKey(host, port)]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	e.Dispatch(frame)
	return nil
}

func addrKey(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// testHarness bundles a membership keypair shared by every node it
// builds, since HELLO member-signatures prove membership in one group.
type testHarness struct {
	t              *testing.T
	sender         *fakeSender
	membershipPriv *rsa.PrivateKey
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	memberPriv, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	return &testHarness{t: t, sender: newFakeSender(), membershipPriv: memberPriv}
}

func (h *testHarness) node(label, port int, prefix string) *Engine {
	h.t.Helper()
	priv, err := crypto.GenerateKeypair()
	require.NoError(h.t, err)
	cert, err := crypto.NewSelfSignedCert(priv, fmt.Sprintf("node-%d", label))
	require.NoError(h.t, err)

	e := New(Config{
		Label:          label,
		Host:           "127.0.0.1",
		Port:           port,
		Cert:           cert,
		Priv:           priv,
		Pub:            &priv.PublicKey,
		MembershipPriv: h.membershipPriv,
		MembershipPub:  &h.membershipPriv.PublicKey,
		Prefix:         prefix,
		MaxHelloCount:  3,
	}, h.sender)
	h.sender.register("127.0.0.1", port, e)
	return e
}

// helloExchange has a and b trade HELLO/HELLO_ACK so each learns the
// other via FIB, the way the node runtime's HELLO clock would.
func helloExchange(t *testing.T, a, b *Engine) {
	t.Helper()
	require.NoError(t, a.SendHelloTo(b.cfg.Host, b.cfg.Port))
}

func TestTwoNodeDirectInterestDataRoundtrip(t *testing.T) {
	h := newTestHarness(t)
	origin := h.node(1, 19001, "")
	sensor := h.node(2, 19002, "/sensor/2")
	sensor.SetProducer(func(name string) (string, bool) {
		return `{"bpm":88}`, true
	})

	helloExchange(t, origin, sensor)
	helloExchange(t, sensor, origin)

	got := make(chan string, 1)
	origin.OnLocalData(func(name, rid, payload string, rtt time.Duration) {
		got <- payload
	})

	origin.Originate("/sensor/2/ecg", 0)

	select {
	case payload := <-got:
		assert.Equal(t, `{"bpm":88}`, payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for DATA")
	}
}

func TestThreeNodeLineForwardsInterestAndData(t *testing.T) {
	h := newTestHarness(t)
	origin := h.node(1, 19011, "")
	mid := h.node(2, 19012, "")
	sensor := h.node(3, 19013, "/sensor/3")
	sensor.SetProducer(func(name string) (string, bool) { return "42", true })

	helloExchange(t, origin, mid)
	helloExchange(t, mid, origin)
	helloExchange(t, mid, sensor)
	helloExchange(t, sensor, mid)

	got := make(chan string, 1)
	origin.OnLocalData(func(name, rid, payload string, rtt time.Duration) { got <- payload })

	origin.Originate("/sensor/3/spo2", 0)

	select {
	case payload := <-got:
		assert.Equal(t, "42", payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for DATA across the line")
	}

	// the intermediate's PIT entry must have been consumed by the DATA
	// reverse-path, not left dangling.
	assert.Equal(t, 0, mid.PIT.Size())
}

func TestHelloAgingEvictsAfterMaxHelloCountTicks(t *testing.T) {
	h := newTestHarness(t)
	a := h.node(1, 19021, "")
	b := h.node(2, 19022, "")

	// ramp hello-count up to the cap (MaxHelloCount is 3, see testHarness.node)
	// the way steady-state HELLO traffic does, then let it age out untouched.
	for i := 0; i < 3; i++ {
		require.NoError(t, a.SendHelloTo(b.cfg.Host, b.cfg.Port))
	}
	require.True(t, b.FIB.Contains(1))

	for i := 0; i < 3; i++ {
		b.Tick()
	}
	assert.False(t, b.FIB.Contains(1), "entry should have aged out after MaxHelloCount ticks with no refresh")
}

func TestHelloAgingRefreshedByRepeatedHello(t *testing.T) {
	h := newTestHarness(t)
	a := h.node(1, 19031, "")
	b := h.node(2, 19032, "")

	for i := 0; i < 3; i++ {
		require.NoError(t, a.SendHelloTo(b.cfg.Host, b.cfg.Port))
	}
	b.Tick()
	require.True(t, b.FIB.Contains(1))

	require.NoError(t, a.SendHelloTo(b.cfg.Host, b.cfg.Port)) // refresh before eviction
	b.Tick()
	b.Tick()
	assert.True(t, b.FIB.Contains(1), "a refreshed entry should survive past the original deadline")
}

func TestInterestFromUnknownSenderIsDropped(t *testing.T) {
	h := newTestHarness(t)
	sensor := h.node(1, 19041, "/sensor/1")
	sensor.SetProducer(func(name string) (string, bool) { return "x", true })

	// a string that is not a frame at all fails to decode and is dropped.
	sensor.Dispatch("garbage-not-a-frame")

	assert.Equal(t, 0, sensor.PIT.Size())

	// a well-formed INTEREST encrypted for the sensor, from a label that
	// never exchanged HELLO and so has no FIB entry on the sensor, is
	// dropped before it can reach the PIT.
	frame, err := message.EncodeInterest(7, "/sensor/5/ecg", "abcde", 0, sensor.cfg.Pub)
	require.NoError(t, err)
	sensor.Dispatch(frame)

	assert.Equal(t, 0, sensor.PIT.Size())
}

func TestDuplicateInterestIsSuppressedNotReforwarded(t *testing.T) {
	h := newTestHarness(t)
	origin := h.node(1, 19051, "")
	mid := h.node(2, 19052, "")
	sensor := h.node(3, 19053, "/sensor/3")
	sensor.SetProducer(func(name string) (string, bool) { return "v", true })

	helloExchange(t, origin, mid)
	helloExchange(t, mid, origin)
	helloExchange(t, mid, sensor)
	helloExchange(t, sensor, mid)

	origin.Originate("/sensor/3/glucose", 0)
	time.Sleep(20 * time.Millisecond)

	// the returning DATA consumed the entry the origination created.
	require.Equal(t, 0, mid.PIT.Size())

	// Delivering the same INTEREST (same name, rid, retry) to mid a second
	// time must neither insert a second PIT entry nor forward it again.
	dup := &message.Interest{Label: 1, Name: "/sensor/9/unowned", RequestID: "dupID", Retry: 0}
	mid.HandleInterest(dup)
	fwdAfterFirst := sumCounter(t, mid, KindInterestFwd)
	mid.HandleInterest(dup)

	assert.Equal(t, 1, mid.PIT.Size())
	assert.Equal(t, fwdAfterFirst, sumCounter(t, mid, KindInterestFwd))
}

func TestOriginateWithEmptyFIBProducesNoOutboundInterest(t *testing.T) {
	h := newTestHarness(t)
	lonely := h.node(1, 19061, "")
	rid := lonely.Originate("/sensor/9/ecg", 0)
	assert.NotEmpty(t, rid)
	assert.Equal(t, float64(0), sumCounter(t, lonely, KindInterestOrg))
}

func sumCounter(t *testing.T, e *Engine, kind string) float64 {
	t.Helper()
	_, out := e.Metrics.Snapshot()
	return out[kind]
}
