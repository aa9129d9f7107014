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

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"math/big"
	"time"
)

// KeyBits is the RSA modulus size used for every node and membership
// keypair.
const KeyBits = 2048

// ErrInvalidPEM is returned when a PEM block cannot be decoded into the
// expected key type.
var ErrInvalidPEM = errors.New("crypto: invalid PEM block")

// GenerateKeypair creates a fresh RSA-2048 keypair with public exponent
// 65537 (the crypto/rsa default).
func GenerateKeypair() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, KeyBits)
}

// EncodePrivatePEM renders a private key as a PKCS#1 PEM block.
func EncodePrivatePEM(priv *rsa.PrivateKey) []byte {
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}
	return pem.EncodeToMemory(block)
}

// DecodePrivatePEM parses a PKCS#1 PEM-encoded private key.
func DecodePrivatePEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// EncodePublicPEM renders a public key as a PKIX PEM block.
func EncodePublicPEM(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return pem.EncodeToMemory(block), nil
}

// DecodePublicPEM parses a PKIX PEM-encoded public key.
func DecodePublicPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrInvalidPEM
	}
	return pub, nil
}

// PublicKeyB64 base64-encodes a public key's PEM form so it embeds
// safely inside a bracket-delimited wire field.
func PublicKeyB64(pub *rsa.PublicKey) (string, error) {
	pemBytes, err := EncodePublicPEM(pub)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(pemBytes), nil
}

// ParsePublicKeyB64 reverses PublicKeyB64.
func ParsePublicKeyB64(s string) (*rsa.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return DecodePublicPEM(raw)
}

// NewSelfSignedCert produces a one-year self-signed X.509 certificate
// for the given keypair. The DER bytes are the opaque "cert" field
// carried in HELLO/FIB -- the wire format never parses them; they are
// only covered by the HELLO's peer and member signatures.
func NewSelfSignedCert(priv *rsa.PrivateKey, commonName string) ([]byte, error) {
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkixName(commonName),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}
	return x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
}

func pkixName(commonName string) pkix.Name {
	return pkix.Name{CommonName: commonName}
}
