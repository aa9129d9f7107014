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
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
)

// Encrypt encrypts plaintext under the recipient's public key using
// OAEP-SHA256 with an empty label, returning base64 text safe to embed
// in a bracket-delimited frame.
func Encrypt(pub *rsa.PublicKey, plaintext []byte) (string, error) {
	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt reverses Encrypt. Per the wire contract it MUST fail silently
// to the caller -- callers receive ok=false rather than tearing down
// the connection on malformed or misencrypted input.
func Decrypt(priv *rsa.PrivateKey, b64 string) (plaintext []byte, ok bool) {
	ct, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, false
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ct, nil)
	if err != nil {
		return nil, false
	}
	return pt, true
}

// pssOpts mirrors the source's "maximum salt" PSS configuration: stdlib's
// nearest equivalent is rsa.PSSSaltLengthAuto.
var pssOpts = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: stdcrypto.SHA256}

// Sign produces a PSS-SHA256 signature over msg, base64-encoded.
func Sign(priv *rsa.PrivateKey, msg []byte) (string, error) {
	digest := sha256.Sum256(msg)
	sig, err := rsa.SignPSS(rand.Reader, priv, stdcrypto.SHA256, digest[:], pssOpts)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a PSS-SHA256 signature produced by Sign. It never
// returns an error -- only a boolean -- so callers cannot accidentally
// discard a failure the way the source's `_decode_data` did (Design
// Notes open question (b)).
func Verify(pub *rsa.PublicKey, msg []byte, b64sig string) bool {
	sig, err := base64.StdEncoding.DecodeString(b64sig)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(msg)
	return rsa.VerifyPSS(pub, stdcrypto.SHA256, digest[:], sig, pssOpts) == nil
}
