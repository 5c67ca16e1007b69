package install

import (
	"os"
	"path/filepath"
	"testing"

	"kubeseed"
)

func TestJoinCommand_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "join-command")
	join := kubeseed.JoinCommand{
		Endpoint:   "10.0.0.5:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: "sha256:deadbeef",
	}

	if err := SaveJoinCommand(path, join); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("join file mode = %o, want 0600 (it embeds a bootstrap token)", perm)
	}

	got, err := LoadJoinCommand(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != join {
		t.Errorf("loaded %+v, want %+v", got, join)
	}
}

func TestLoadJoinCommand_MissingFile(t *testing.T) {
	if _, err := LoadJoinCommand(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing join file loaded without error")
	}
}
