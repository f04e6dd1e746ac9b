// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethersign/eip712structs/pkg/eip712"
	"github.com/spf13/cobra"
)

func (c *command) initHashCmd() {
	c.root.AddCommand(&cobra.Command{
		Use:   "hash [file]",
		Short: "Compute the EIP-712 hashes of a typed data JSON document",
		Long: `Computes the domain separator, the struct hash of the primary type and
the final signing digest of an EIP-712 typed data JSON document. The
document is read from the given file, or from standard input when no file
(or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := c.setLogger()
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			message, domain, err := eip712.ParseTypedDataJSON(data)
			if err != nil {
				return err
			}
			logger.Debugf("primary type %s", message.Type().Name())

			domainHash, err := domain.HashStruct()
			if err != nil {
				return err
			}
			structHash, err := message.HashStruct()
			if err != nil {
				return err
			}
			signable, err := message.SignableBytes(domain)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "domain separator: %s\n", hexutil.Encode(domainHash))
			fmt.Fprintf(cmd.OutOrStdout(), "struct hash:      %s\n", hexutil.Encode(structHash))
			fmt.Fprintf(cmd.OutOrStdout(), "signing digest:   %s\n", hexutil.Encode(crypto.Keccak256(signable)))
			return nil
		},
	})
}
