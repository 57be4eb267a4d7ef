package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleReg is a small .reg export of HKEY_CURRENT_USER\Software\Test.
const SampleReg = `Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER\Software\Test]
"Name"="abc"

[HKEY_CURRENT_USER\Software\Test\Sub]
"Count"=dword:00000005
`

// WriteRegFile writes content to a .reg file in a temporary directory and
// returns its path.
//
// Example:
//
//	path := testutil.WriteRegFile(t, testutil.SampleReg)
func WriteRegFile(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, "export.reg", []byte(content))
}

// WriteFile writes data under name in a temporary directory and returns
// the full path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
