package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kkyr/fig"
	"github.com/rhettg/sysinfo/internal/sysinfo"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SYSINFO"

type Config struct {
	// Name shown in the banner and the /v1 response
	Name string `fig:"name" default:"sysinfo"`
	Port string `fig:"port" default:"8080"`

	// Root is the working copy the binary was built from. ScriptsRoot is the
	// tree scripts are loaded from; it defaults to Root.
	Root        string `fig:"root" default:"."`
	ScriptsRoot string `fig:"scripts_root"`

	// GitRef and SVNNode select the ref file and wc.db node; empty means
	// sysinfo.DefaultGitRef and sysinfo.DefaultSVNNode.
	GitRef  string `fig:"git_ref"`
	SVNNode string `fig:"svn_node"`

	// Facts is one of auto, snapshot or probe.
	Facts string `fig:"facts" default:"auto"`

	RedisURL string `fig:"redis_url"`
}

// Load reads configuration from SYSINFO_* environment variables and, when
// file is not empty, from that file.
func Load(file string) (*Config, error) {
	var conf Config
	opts := []fig.Option{
		fig.UseStrict(),
		fig.UseEnv(EnvPrefix),
		fig.File(filepath.Base(file)),
		fig.Dirs(filepath.Dir(file)),
	}
	if file == "" {
		opts = append(opts, fig.IgnoreFile())
	}

	if err := fig.Load(&conf, opts...); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if conf.ScriptsRoot == "" {
		conf.ScriptsRoot = conf.Root
	}

	switch conf.Facts {
	case sysinfo.ModeAuto, sysinfo.ModeSnapshot, sysinfo.ModeProbe:
	default:
		return nil, fmt.Errorf("invalid facts mode %q", conf.Facts)
	}

	return &conf, nil
}

// SourceResolver probes the working copy the binary was built from.
func (c *Config) SourceResolver() *sysinfo.Resolver {
	return sysinfo.NewResolver(c.Root, c.GitRef, c.SVNNode)
}

// ScriptsResolver probes the scripts tree.
func (c *Config) ScriptsResolver() *sysinfo.Resolver {
	return sysinfo.NewResolver(c.ScriptsRoot, c.GitRef, c.SVNNode)
}

// NewSysInfo builds the process wide SysInfo described by c.
func (c *Config) NewSysInfo() (*sysinfo.SysInfo, error) {
	facts, err := sysinfo.NewProvider(c.Facts, c.SourceResolver())
	if err != nil {
		return nil, err
	}
	return sysinfo.New(facts, c.ScriptsResolver()), nil
}

var quoted = regexp.MustCompile(`^["'](.*)["']$`)

// LoadDotEnv sets environment variables from a KEY=value file. A missing file
// is ignored.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid line: %s", line)
		}

		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = quoted.ReplaceAllString(strings.TrimSpace(value), `$1`)

		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return scanner.Err()
}
