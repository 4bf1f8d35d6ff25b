package classify

// defaultTables are the compiled-in risk tables. Callers that load rule
// packs build their own KB; everyone else gets these.
//
// The allowlist holds read-only commands whose worst case is disclosure of
// a file the path rules already guard. The denylist holds commands whose
// normal use destroys data, escalates privileges, or hands execution to
// text the classifier cannot see (pipe-to-shell, eval, source).
var defaultTables = Tables{
	SafeCommands: []string{
		"ls", "pwd", "cd", "echo", "printf", "cat", "head", "tail", "less",
		"more", "grep", "egrep", "fgrep", "rg", "wc", "sort", "uniq", "cut",
		"tr", "diff", "file", "stat", "du", "df", "tree", "basename",
		"dirname", "realpath", "readlink", "which", "type", "whoami", "id",
		"hostname", "uname", "date", "uptime", "env", "printenv", "ps",
		"git", "find", "sed", "awk", "curl", "wget", "jq", "xargs",
		"true", "false", "test", "sleep", "man", "help",
	},
	RiskyCommands: []string{
		// Data destruction
		"rm", "rmdir", "unlink", "shred", "truncate", "dd",
		"mkfs", "fdisk", "parted", "wipefs",
		// Privilege escalation
		"sudo", "su", "doas", "pkexec",
		// Hand execution to opaque text
		"sh", "bash", "zsh", "dash", "ksh", "csh", "fish",
		"eval", "exec", "source", ".",
		// System state
		"shutdown", "reboot", "poweroff", "halt",
		"kill", "pkill", "killall",
		"useradd", "userdel", "usermod", "passwd", "chpasswd",
		"crontab", "at",
		"iptables", "ip6tables", "ufw", "firewall-cmd",
		"insmod", "rmmod", "modprobe", "sysctl",
	},
	RiskyPairs: []PairRule{
		// World-writable or zeroed permissions
		{Command: "chmod", ArgContains: "777"},
		{Command: "chmod", ArgContains: "000"},
		{Command: "chmod", ArgContains: "-R"},
		{Command: "chown", ArgContains: "-R"},
		// Forced, history-rewriting pushes
		{Command: "git", ArgContains: "--force"},
		{Command: "git", ArgContains: "push -f"},
		// Exfiltration-shaped transfers
		{Command: "curl", ArgContains: "--upload-file"},
		{Command: "curl", ArgContains: "-T"},
		{Command: "curl", ArgContains: "--data @"},
		{Command: "curl", ArgContains: "-d @"},
		{Command: "wget", ArgContains: "--post-file"},
		{Command: "nc", ArgContains: "-e"},
		{Command: "ncat", ArgContains: "-e"},
		// find can delete or execute through its own flags
		{Command: "find", ArgContains: "-delete"},
		{Command: "find", ArgContains: "-exec"},
		{Command: "find", ArgContains: "-execdir"},
		{Command: "xargs", ArgContains: "rm"},
		// In-place edits
		{Command: "sed", ArgContains: "-i"},
		// Payload decoding
		{Command: "base64", ArgContains: "-d"},
		{Command: "base64", ArgContains: "--decode"},
		// Service teardown
		{Command: "systemctl", ArgContains: "stop"},
		{Command: "systemctl", ArgContains: "disable"},
		{Command: "systemctl", ArgContains: "mask"},
		// One-liner interpreters
		{Command: "python", ArgContains: "-c"},
		{Command: "python3", ArgContains: "-c"},
		{Command: "perl", ArgContains: "-e"},
		{Command: "ruby", ArgContains: "-e"},
		{Command: "node", ArgContains: "-e"},
	},
	RiskyPaths: []string{
		// Credential and account material
		"/etc/passwd", "/etc/shadow", "/etc/gshadow",
		"/etc/sudoers", "/etc/sudoers.d",
		"/etc/ssh", "/etc/ssl/private",
		"~/.ssh", "~/.gnupg", "~/.aws", "~/.kube", "~/.docker",
		"~/.netrc", "~/.npmrc", "~/.pgpass",
		// Persistence hooks
		"/etc/crontab", "/etc/cron.d", "/etc/cron.daily",
		"/var/spool/cron", "/etc/systemd",
		"~/.bashrc", "~/.bash_profile", "~/.profile", "~/.zshrc",
		// Kernel and boot surfaces
		"/boot", "/sys", "/proc", "/dev",
		// Root's tree
		"/root",
	},
	PathExceptions: []string{
		"/dev/null", "/dev/stdin", "/dev/stdout", "/dev/stderr",
		"/dev/tty", "/dev/zero", "/dev/urandom", "/dev/random",
		"/proc/cpuinfo", "/proc/meminfo", "/proc/version",
		"/proc/loadavg", "/proc/uptime",
	},
}

// defaultKB is built at init; a contradiction in the tables above fails the
// process before it can serve a single classification.
var defaultKB = MustKB(defaultTables)

// DefaultKB returns the compiled-in knowledge base.
func DefaultKB() *KB {
	return defaultKB
}

// DefaultTables returns a copy of the compiled-in tables so rule-pack
// loaders can extend them without aliasing the originals.
func DefaultTables() Tables {
	t := Tables{
		SafeCommands:   append([]string(nil), defaultTables.SafeCommands...),
		RiskyCommands:  append([]string(nil), defaultTables.RiskyCommands...),
		RiskyPairs:     append([]PairRule(nil), defaultTables.RiskyPairs...),
		RiskyPaths:     append([]string(nil), defaultTables.RiskyPaths...),
		PathExceptions: append([]string(nil), defaultTables.PathExceptions...),
	}
	return t
}
