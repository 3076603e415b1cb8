package sshlib

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"github.com/stacybrock/reMarkable-remtool/internal/remote"
)

// authMethods assembles the credential chain, in order of preference:
// explicit identity file, ssh-agent, default key files, and finally an
// interactive password prompt when stdin is a terminal. The reMarkable ships
// with password auth enabled and prints the root password on the device, so
// the prompt is the common path for first-time users.
func authMethods(opts remote.Options) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if opts.IdentityFile != "" {
		signer, err := loadKey(opts.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("%w: identity file %s: %v", remote.ErrAuthFailed, opts.IdentityFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"id_ed25519", "id_rsa"} {
			if signer, err := loadKey(filepath.Join(home, ".ssh", name)); err == nil {
				methods = append(methods, ssh.PublicKeys(signer))
			}
		}
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		methods = append(methods, ssh.PasswordCallback(promptPassword(opts)))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no usable credentials (no key, no agent, not a terminal)", remote.ErrAuthFailed)
	}
	return methods, nil
}

func loadKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}

	// Encrypted key: ask for the passphrase when we can.
	if _, ok := err.(*ssh.PassphraseMissingError); ok && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Enter passphrase for %s: ", path)
		passphrase, perr := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if perr != nil {
			return nil, perr
		}
		return ssh.ParsePrivateKeyWithPassphrase(data, passphrase)
	}

	return nil, err
}

func promptPassword(opts remote.Options) func() (string, error) {
	return func() (string, error) {
		fmt.Fprintf(os.Stderr, "%s@%s's password: ", opts.User, opts.Host)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when it exists.
// Hosts not present in the file are accepted (the device regenerates its
// host key on factory reset, and bailing out here would strand exactly the
// users this tool targets); a changed key for a known host still fails.
func hostKeyCallback() ssh.HostKeyCallback {
	home, err := os.UserHomeDir()
	if err != nil {
		return ssh.InsecureIgnoreHostKey()
	}

	verify, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return ssh.InsecureIgnoreHostKey()
	}

	return func(hostname string, rem net.Addr, key ssh.PublicKey) error {
		err := verify(hostname, rem, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			// unknown host, accept
			return nil
		}
		return err
	}
}
