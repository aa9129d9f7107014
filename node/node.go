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

// Package node wires transport, the forwarding engine, and a local
// sensor producer into one runnable mesh participant, and drives its
// HELLO clock and operator command channel.
package node

import (
	"context"
	"crypto/rsa"
	"time"

	"github.com/bfix/gospel/logger"
	"golang.org/x/sync/errgroup"

	"github.com/Anupal/distributed-ndn/config"
	"github.com/Anupal/distributed-ndn/forwarding"
	"github.com/Anupal/distributed-ndn/producer"
	"github.com/Anupal/distributed-ndn/transport"
	"github.com/Anupal/distributed-ndn/util"
)

// Identity carries the loaded key material for one node, resolved by
// the bootstrap command from the node's configured key paths.
type Identity struct {
	Priv           *rsa.PrivateKey
	MembershipPriv *rsa.PrivateKey
	Cert           []byte

	GatewayPriv *rsa.PrivateKey // nil unless IsGateway
}

// Node is one running mesh participant: transport, forwarding engine,
// HELLO clock, and operator command channel.
type Node struct {
	cfg   config.NodeConfig
	peers []int // k-nearest neighbor labels, computed once at construction

	Engine *forwarding.Engine
	server *transport.Server
	client *transport.Client

	commands chan Command

	tickCount int
}

// New builds a Node from its configuration and identity. prod answers
// locally-owned names (nil if this node owns nothing); it is the
// external sensor-data collaborator (spec §1).
func New(cfg config.NodeConfig, id Identity, prod producer.Func) (*Node, error) {
	client := transport.NewClient()

	eng := forwarding.New(forwarding.Config{
		Label:          cfg.Label,
		Host:           cfg.Endpoint.Host,
		Port:           cfg.Endpoint.Port,
		Cert:           id.Cert,
		Priv:           id.Priv,
		Pub:            &id.Priv.PublicKey,
		MembershipPriv: id.MembershipPriv,
		MembershipPub:  &id.MembershipPriv.PublicKey,
		Prefix:         cfg.Prefix,
		MaxHelloCount:  cfg.MaxHelloCount,
	}, client)

	if prod != nil {
		eng.SetProducer(prod)
	}

	if cfg.IsGateway && cfg.GatewayPeer != nil && id.GatewayPriv != nil {
		bridge := forwarding.NewBridge(eng, client, id.GatewayPriv, &id.GatewayPriv.PublicKey,
			cfg.GatewayPeer.Host, cfg.GatewayPeer.Port, cfg.GatewayNamePrefix)
		eng.SetBridge(bridge)
	}

	server, err := transport.NewServer(cfg.Endpoint.Host, cfg.Endpoint.Port, eng)
	if err != nil {
		return nil, err
	}

	peers := util.KNearest(util.Point{X: cfg.X, Y: cfg.Y}, config.Cfg.Coordinates(cfg.Label), cfg.K)

	return &Node{
		cfg:      cfg,
		peers:    peers,
		Engine:   eng,
		server:   server,
		client:   client,
		commands: make(chan Command, commandQueueCapacity),
	}, nil
}

// SetCommsEnabled gates both the listener and the outbound client.
func (n *Node) SetCommsEnabled(on bool) {
	n.server.SetCommsEnabled(on)
	n.client.SetCommsEnabled(on)
}

// Run blocks until ctx is cancelled or a goroutine fails: the accept
// loop and the HELLO clock run concurrently under one errgroup, mirroring
// the teacher's ctx+errgroup main-loop shape.
func (n *Node) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := n.server.Run()
		if ctx.Err() != nil {
			return nil // Close() during shutdown is expected
		}
		return err
	})

	eg.Go(func() error {
		<-ctx.Done()
		return n.server.Close()
	})

	eg.Go(func() error {
		return n.runClock(ctx)
	})

	return eg.Wait()
}

// runClock drives the HELLO_DELAY clock: each tick sends a HELLO to
// every k-nearest peer; every other tick also ages the FIB. Operator
// commands are drained once per tick (spec §5).
func (n *Node) runClock(ctx context.Context) error {
	delay := time.Duration(n.cfg.HelloDelaySec) * time.Second
	if delay <= 0 {
		delay = time.Second
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.helloTick()
		}
	}
}

func (n *Node) helloTick() {
	for _, label := range n.peers {
		peerCfg, ok := config.Cfg.ByLabel(label)
		if !ok {
			continue
		}
		if err := n.Engine.SendHelloTo(peerCfg.Endpoint.Host, peerCfg.Endpoint.Port); err != nil {
			logger.Printf(logger.DBG, "[node %d] HELLO to %d failed: %v\n", n.cfg.Label, label, err)
		}
	}

	n.tickCount++
	if n.tickCount%2 == 0 {
		n.Engine.Tick()
	}

	n.drainCommands()
}
