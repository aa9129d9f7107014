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

package main

import (
	"context"
	"crypto/rsa"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bfix/gospel/logger"

	"github.com/Anupal/distributed-ndn/config"
	"github.com/Anupal/distributed-ndn/crypto"
	"github.com/Anupal/distributed-ndn/node"
	"github.com/Anupal/distributed-ndn/producer"
)

func main() {
	defer func() {
		logger.Println(logger.INFO, "[ndn-node] Bye.")
		logger.Flush()
	}()
	logger.Println(logger.INFO, "[ndn-node] Starting node...")

	var (
		cfgFile    string
		label      int
		logLevel   int
		passphrase string
		err        error
	)
	flag.StringVar(&cfgFile, "c", "ndn-config.json", "deployment configuration file")
	flag.IntVar(&label, "n", -1, "label of the NodeConfig to run as")
	flag.IntVar(&logLevel, "L", logger.INFO, "log level")
	flag.StringVar(&passphrase, "p", "", "passphrase for sealed key files (empty: keys are plaintext PEM)")
	flag.Parse()

	logger.SetLogLevel(logLevel)

	if err = config.ParseConfig(cfgFile); err != nil {
		logger.Printf(logger.ERROR, "[ndn-node] invalid configuration file: %s\n", err.Error())
		return
	}

	cfg, ok := config.Cfg.ByLabel(label)
	if !ok {
		logger.Printf(logger.ERROR, "[ndn-node] no node configured with label %d\n", label)
		return
	}

	id, err := loadIdentity(cfg, passphrase)
	if err != nil {
		logger.Printf(logger.ERROR, "[ndn-node] failed to load key material: %s\n", err.Error())
		return
	}

	var prod producer.Func
	if cfg.Prefix != "" {
		prod = producer.DefaultVitals(cfg.Prefix).Answer
	}

	n, err := node.New(cfg, id, prod)
	if err != nil {
		logger.Printf(logger.ERROR, "[ndn-node] failed to construct node: %s\n", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- n.Run(ctx) }()

	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf(logger.INFO, "[ndn-node] terminating on signal '%s'\n", sig)
	case err := <-errCh:
		if err != nil {
			logger.Printf(logger.ERROR, "[ndn-node] node runtime failed: %s\n", err.Error())
		}
	}
	cancel()
}

// loadIdentity resolves a node's RSA key material from its configured
// key paths, using a sealed keystore when passphrase is non-empty.
func loadIdentity(cfg config.NodeConfig, passphrase string) (node.Identity, error) {
	priv, err := loadOrGenerate(cfg.KeyPath, passphrase)
	if err != nil {
		return node.Identity{}, err
	}
	memberPriv, err := loadOrGenerate(cfg.MembershipKeyPath, passphrase)
	if err != nil {
		return node.Identity{}, err
	}
	cert, err := crypto.NewSelfSignedCert(priv, "ndn-node")
	if err != nil {
		return node.Identity{}, err
	}

	id := node.Identity{Priv: priv, MembershipPriv: memberPriv, Cert: cert}

	if cfg.IsGateway && cfg.GatewayKeyPath != "" {
		gwPriv, err := loadOrGenerate(cfg.GatewayKeyPath, passphrase)
		if err != nil {
			return node.Identity{}, err
		}
		id.GatewayPriv = gwPriv
	}
	return id, nil
}

func loadOrGenerate(path, passphrase string) (*rsa.PrivateKey, error) {
	if path == "" {
		return crypto.GenerateKeypair()
	}
	if passphrase != "" {
		return crypto.LoadPrivateKey(path, []byte(passphrase))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return crypto.DecodePrivatePEM(data)
}
