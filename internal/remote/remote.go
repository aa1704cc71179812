// Package remote runs the slurm reporting commands on a login node over SSH,
// for workstations that are not part of the cluster. Connection settings are
// resolved from ~/.ssh/config; auth uses the SSH agent and default key files.
package remote

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/ycrc/Orwell-CLI/internal/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// DefaultDialTimeout bounds the TCP connect to the login node.
const DefaultDialTimeout = 10 * time.Second

// Runner executes reporting commands on a remote login node.
// It satisfies the slurm.Runner interface.
type Runner struct {
	client *ssh.Client
	host   string
}

// settings holds the resolved SSH connection parameters.
type settings struct {
	hostname string
	port     string
	user     string
	keyFile  string
}

func (s *settings) address() string {
	return net.JoinHostPort(s.hostname, s.port)
}

// Dial connects to the login node. The host can be an SSH config alias, a
// hostname, or user@hostname.
func Dial(host string, timeout time.Duration) (*Runner, error) {
	s := resolveSettings(host)

	auth, err := authMethods(s)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            s.user,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	conn, err := net.DialTimeout("tcp", s.address(), timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Can't reach '"+host+"' at "+s.address(),
			"Check the host name and your network connection.")
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, s.address(), cfg)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"SSH handshake with '"+host+"' didn't go through",
			"Check your keys are loaded: ssh-add -l")
	}

	return &Runner{client: ssh.NewClient(sshConn, chans, reqs), host: host}, nil
}

// Close shuts down the SSH connection.
func (r *Runner) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Lines runs a reporting command on the login node and returns its stdout
// split into trimmed lines.
func (r *Runner) Lines(args []string) ([]string, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't open a session on '"+r.host+"'", "")
	}
	defer session.Close()

	var stdout bytes.Buffer
	session.Stdout = &stdout

	if err := session.Run(strings.Join(args, " ")); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"'"+strings.Join(args, " ")+"' failed on '"+r.host+"'",
			"Are slurm commands on the default PATH of '"+r.host+"'?")
	}

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// resolveSettings parses user@host notation and fills the rest from
// ~/.ssh/config where available.
func resolveSettings(host string) *settings {
	s := &settings{port: "22", user: currentUser()}

	if at := strings.Index(host, "@"); at != -1 {
		s.user = host[:at]
		host = host[at+1:]
	}
	s.hostname = host

	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	data, err := os.ReadFile(filepath.Join(home, ".ssh", "config"))
	if err != nil {
		return s
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return s
	}

	if hostname, _ := cfg.Get(host, "HostName"); hostname != "" {
		s.hostname = hostname
	}
	if port, _ := cfg.Get(host, "Port"); port != "" {
		s.port = port
	}
	if user, _ := cfg.Get(host, "User"); user != "" {
		s.user = user
	}
	if identity, _ := cfg.Get(host, "IdentityFile"); identity != "" {
		s.keyFile = expandHome(identity, home)
	}
	return s
}

// authMethods builds the auth chain: SSH agent first, then the resolved or
// default identity files.
func authMethods(s *settings) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, _ := os.UserHomeDir()
	keyFiles := []string{s.keyFile}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyFiles = append(keyFiles, filepath.Join(home, ".ssh", name))
	}
	for _, file := range keyFiles {
		if file == "" {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No usable SSH credentials found",
			"Load a key into your agent (ssh-add) or create ~/.ssh/id_ed25519.")
	}
	return methods, nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("LOGNAME")
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
