// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eip712structs

var (
	version    = "0.2.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	// Version is the release identifier reported by the version command.
	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
