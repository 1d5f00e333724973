package checker

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

//go:embed prelude.hvm
var prelude string

const versionMarker = "// version:"

// Bootstrap is the fixed rule set the generated rules are appended to. It
// implements the checking algorithm on top of the NameOf, HashOf, TypeOf and
// RuleOf relations and answers `Kind.API.check_all` with a list of error
// records. Changing what it queries breaks the encoder and the report
// decoder, hence the version.
type Bootstrap struct {
	Version string
	Source  string

	entries map[string]bool
}

// NewBootstrap parses source to learn which API entries it defines.
func NewBootstrap(version, source string) (Bootstrap, error) {
	file, err := hvm.ParseFile(source)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("bootstrap %s: %w", version, err)
	}
	entries := make(map[string]bool)
	for _, rule := range file.Rules {
		entries[rule.Lhs.Name] = true
	}
	return Bootstrap{Version: version, Source: source, entries: entries}, nil
}

// DefaultBootstrap is the embedded evaluation prelude. It can run Main but
// cannot type check.
func DefaultBootstrap() Bootstrap {
	bootstrap, err := NewBootstrap(versionOf(prelude), prelude)
	if err != nil {
		panic(err)
	}
	return bootstrap
}

// LoadBootstrap reads a bootstrap from path. Its version is taken from a
// leading `// version: <name>` line.
func LoadBootstrap(path string) (Bootstrap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("reading bootstrap: %w", err)
	}
	source := string(data)
	return NewBootstrap(versionOf(source), source)
}

func (b Bootstrap) Defines(entry string) bool {
	return b.entries[entry]
}

func versionOf(source string) string {
	first, _, _ := strings.Cut(source, "\n")
	if version, ok := strings.CutPrefix(first, versionMarker); ok {
		return strings.TrimSpace(version)
	}
	return "unversioned"
}
