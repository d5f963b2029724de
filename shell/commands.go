package shell

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

// command is one entry of the shell's command table.
type command struct {
	usage   string
	help    string
	minArgs int
	mutates bool
	run     func(s *ZKShell, ctx context.Context, args []string) error
}

var commands = map[string]*command{
	"ls": {
		usage: "ls [path]",
		help:  "list the children of a znode",
		run:   (*ZKShell).cmdLs,
	},
	"get": {
		usage:   "get <path>",
		help:    "print the data stored at a znode",
		minArgs: 1,
		run:     (*ZKShell).cmdGet,
	},
	"set": {
		usage:   "set <path> <data>",
		help:    "replace the data stored at a znode",
		minArgs: 2,
		mutates: true,
		run:     (*ZKShell).cmdSet,
	},
	"create": {
		usage:   "create <path> [data] [e] [s]",
		help:    "create a znode (e = ephemeral, s = sequence)",
		minArgs: 1,
		mutates: true,
		run:     (*ZKShell).cmdCreate,
	},
	"rm": {
		usage:   "rm <path>",
		help:    "delete a znode",
		minArgs: 1,
		mutates: true,
		run:     (*ZKShell).cmdRm,
	},
	"stat": {
		usage:   "stat [path]",
		help:    "print the metadata of a znode",
		run:     (*ZKShell).cmdStat,
	},
	"cd": {
		usage: "cd [path]",
		help:  "change the working znode (default /)",
		run:   (*ZKShell).cmdCd,
	},
	"pwd": {
		usage: "pwd",
		help:  "print the working znode",
		run:   (*ZKShell).cmdPwd,
	},
}

// cmdHelp ranges over the table, so its entry registers here instead
// of in the literal to keep the initializer acyclic.
func init() {
	commands["help"] = &command{
		usage: "help",
		help:  "list the available commands",
		run:   (*ZKShell).cmdHelp,
	}
}

// ExecuteOne runs a single command line against the ensemble.
func (s *ZKShell) ExecuteOne(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	if cmd.mutates && s.opts.ReadOnly {
		return fmt.Errorf("%s: %w", name, ErrReadOnly)
	}
	if len(args) < cmd.minArgs {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd.run(s, ctx, args)
}

// ── command implementations ──────────────────────────────────────────

func (s *ZKShell) cmdLs(_ context.Context, args []string) error {
	p := s.resolvePath(argOr(args, 0, ""))
	children, _, err := s.conn.Children(p)
	if err != nil {
		return zkError("ls", p, err)
	}
	sort.Strings(children)
	if len(children) > 0 {
		fmt.Fprintln(s.out, strings.Join(children, " "))
	}
	return nil
}

func (s *ZKShell) cmdGet(_ context.Context, args []string) error {
	p := s.resolvePath(args[0])
	data, _, err := s.conn.Get(p)
	if err != nil {
		return zkError("get", p, err)
	}
	fmt.Fprintln(s.out, string(data))
	return nil
}

func (s *ZKShell) cmdSet(_ context.Context, args []string) error {
	p := s.resolvePath(args[0])
	data := strings.Join(args[1:], " ")
	if _, err := s.conn.Set(p, []byte(data), -1); err != nil {
		return zkError("set", p, err)
	}
	return nil
}

func (s *ZKShell) cmdCreate(_ context.Context, args []string) error {
	p := s.resolvePath(args[0])

	var data string
	var flags int32
	for i, a := range args[1:] {
		switch {
		case i == 0 && a != "e" && a != "s":
			data = a
		case a == "e":
			flags |= zk.FlagEphemeral
		case a == "s":
			flags |= zk.FlagSequence
		default:
			return fmt.Errorf("create: unknown flag %q", a)
		}
	}

	created, err := s.conn.Create(p, []byte(data), flags, zk.WorldACL(zk.PermAll))
	if err != nil {
		return zkError("create", p, err)
	}
	fmt.Fprintln(s.out, created)
	return nil
}

func (s *ZKShell) cmdRm(_ context.Context, args []string) error {
	p := s.resolvePath(args[0])
	if err := s.conn.Delete(p, -1); err != nil {
		return zkError("rm", p, err)
	}
	return nil
}

func (s *ZKShell) cmdStat(_ context.Context, args []string) error {
	p := s.resolvePath(argOr(args, 0, ""))
	exists, st, err := s.conn.Exists(p)
	if err != nil {
		return zkError("stat", p, err)
	}
	if !exists {
		return fmt.Errorf("stat %s: no such znode", p)
	}
	fmt.Fprint(s.out, formatStat(st))
	return nil
}

func (s *ZKShell) cmdCd(_ context.Context, args []string) error {
	p := "/"
	if len(args) > 0 {
		p = s.resolvePath(args[0])
	}
	exists, _, err := s.conn.Exists(p)
	if err != nil {
		return zkError("cd", p, err)
	}
	if !exists {
		return fmt.Errorf("cd %s: no such znode", p)
	}
	s.cwd = p
	return nil
}

func (s *ZKShell) cmdPwd(_ context.Context, _ []string) error {
	fmt.Fprintln(s.out, s.cwd)
	return nil
}

func (s *ZKShell) cmdHelp(_ context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(s.out, "%-28s %s\n", c.usage, c.help)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

// resolvePath turns p into an absolute, clean znode path relative to
// the working znode.  An empty p resolves to the working znode.
func (s *ZKShell) resolvePath(p string) string {
	if p == "" {
		return s.cwd
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Join(s.cwd, p)
	}
	return path.Clean(p)
}

func argOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

// zkError rewrites the client library's sentinel errors into messages
// phrased for the user.
func zkError(op, p string, err error) error {
	switch {
	case errors.Is(err, zk.ErrNoNode):
		return fmt.Errorf("%s %s: no such znode", op, p)
	case errors.Is(err, zk.ErrNodeExists):
		return fmt.Errorf("%s %s: znode already exists", op, p)
	case errors.Is(err, zk.ErrNotEmpty):
		return fmt.Errorf("%s %s: znode has children", op, p)
	case errors.Is(err, zk.ErrNoAuth):
		return fmt.Errorf("%s %s: not authorized", op, p)
	case errors.Is(err, zk.ErrSessionExpired):
		return fmt.Errorf("%s %s: session expired", op, p)
	default:
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
}

// formatStat renders a znode Stat the way the stat command prints it.
func formatStat(st *zk.Stat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "czxid: %d\n", st.Czxid)
	fmt.Fprintf(&b, "mzxid: %d\n", st.Mzxid)
	fmt.Fprintf(&b, "ctime: %s\n", zkTime(st.Ctime))
	fmt.Fprintf(&b, "mtime: %s\n", zkTime(st.Mtime))
	fmt.Fprintf(&b, "version: %d\n", st.Version)
	fmt.Fprintf(&b, "cversion: %d\n", st.Cversion)
	fmt.Fprintf(&b, "aversion: %d\n", st.Aversion)
	fmt.Fprintf(&b, "ephemeralOwner: %#x\n", st.EphemeralOwner)
	fmt.Fprintf(&b, "dataLength: %d\n", st.DataLength)
	fmt.Fprintf(&b, "numChildren: %d\n", st.NumChildren)
	fmt.Fprintf(&b, "pzxid: %d\n", st.Pzxid)
	return b.String()
}

// zkTime converts the server's millisecond timestamps.
func zkTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
