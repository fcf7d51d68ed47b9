package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bhau7233/MSig/crypto"
	"github.com/bhau7233/MSig/errors"
	"github.com/spf13/cobra"
)

// keyPerm is the file permission of saved private keys.
const keyPerm = 0600

var isKeyName = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,40}$`).MatchString

func keyPath(name string) string {
	return filepath.Join(home, "keys", name+".json")
}

// loadKey reads a key written by saveKey. It fails with ErrNotFound if no
// such key exists.
func loadKey(name string) (*crypto.PrivateKey, error) {
	if !isKeyName(name) {
		return nil, errors.Wrapf(errors.ErrNotFound, "invalid key name %q", name)
	}
	raw, err := ioutil.ReadFile(keyPath(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var key crypto.PrivateKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, errors.Wrapf(err, "key %q", name)
	}
	return &key, nil
}

// saveKey writes the key. It refuses to overwrite an existing one.
func saveKey(name string, key *crypto.PrivateKey) error {
	if !isKeyName(name) {
		return errors.Wrapf(errors.ErrInput, "invalid key name %q", name)
	}
	path := keyPath(name)
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "refusing to overwrite %s", path)
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(path, raw, keyPerm); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local owner identities",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new <name>",
			Short: "Generate a new ed25519 key and print its address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := crypto.GenPrivateKey(rand.Reader)
				if err != nil {
					return err
				}
				if err := saveKey(args[0], key); err != nil {
					return err
				}
				return printAddress(cmd, key)
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print the address of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := loadKey(args[0])
				if err != nil {
					return err
				}
				return printAddress(cmd, key)
			},
		},
	)
	return cmd
}

func printAddress(cmd *cobra.Command, key *crypto.PrivateKey) error {
	addr := key.Address()
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", addr, b32)
	return nil
}
