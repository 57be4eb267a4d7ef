package rootpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regjson/internal/testutil"
	"github.com/joshuapare/regjson/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		root    types.RootKey
		subpath string
	}{
		{"plain", `HKEY_CURRENT_USER\Software\Test`, types.CurrentUser, `Software\Test`},
		{"garbage prefix", `C:\garbage\HKEY_LOCAL_MACHINE\System`, types.LocalMachine, "System"},
		{"regedit address bar", `Computer\HKEY_USERS\.DEFAULT`, types.Users, ".DEFAULT"},
		{"lower case", `hkey_classes_root\.txt`, types.ClassesRoot, ".txt"},
		{"mixed case", `Hkey_Current_Config\System`, types.CurrentConfig, "System"},
		{"root only", `HKEY_LOCAL_MACHINE`, types.LocalMachine, ""},
		{"root with trailing separator", `HKEY_LOCAL_MACHINE\`, types.LocalMachine, ""},
		{"doubled separators", `HKEY_LOCAL_MACHINE\\Software\\\Classes\`, types.LocalMachine, `Software\Classes`},
		{"glued prefix", `fooHKEY_USERS\S-1-5-18`, types.Users, "S-1-5-18"},
		{"abbreviation", `HKLM\SOFTWARE\Microsoft`, types.LocalMachine, `SOFTWARE\Microsoft`},
		{"abbreviation lower", `hkcu\Console`, types.CurrentUser, "Console"},
		{"first root wins", `HKEY_USERS\HKEY_CURRENT_USER`, types.Users, "HKEY_CURRENT_USER"},
		{"unknown HKEY segment skipped", `HKEY_BOGUS\HKEY_CURRENT_USER\X`, types.CurrentUser, "X"},
		{"forward slashes kept", `HKEY_CLASSES_ROOT\image/png`, types.ClassesRoot, "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.root, p.Root)
			assert.Equal(t, tt.subpath, p.Subpath)
		})
	}
}

func TestParse_NoRoot(t *testing.T) {
	for _, in := range []string{"", `Software\Test`, `HKEY_BOGUS\Software`, `C:\Windows`, `HKLMX\Software`} {
		_, err := Parse(in)
		require.ErrorIs(t, err, types.ErrNoRoot, in)
	}
}

func TestPath_String(t *testing.T) {
	assert.Equal(t, `HKEY_LOCAL_MACHINE\System`, Path{Root: types.LocalMachine, Subpath: "System"}.String())
	assert.Equal(t, "HKEY_USERS", Path{Root: types.Users}.String())
}

func newStore() *testutil.FakeStore {
	store := testutil.NewFakeStore()
	store.SetRoot(types.CurrentUser, testutil.K("HKEY_CURRENT_USER").Add(
		testutil.K("Software").Add(
			testutil.K("Test").With("Name", types.TextPayload(types.REG_SZ, "abc")),
		),
	))
	return store
}

func TestOpen(t *testing.T) {
	store := newStore()

	key, err := Open(store, `HKEY_CURRENT_USER\Software\Test`)
	require.NoError(t, err)
	p, err := key.Value("Name")
	require.NoError(t, err)
	assert.Equal(t, "abc", p.Text)
	require.NoError(t, key.Close())

	assert.Equal(t, 0, store.Leaked(), "root handle released after opening the subpath")
}

func TestOpen_RootOnly(t *testing.T) {
	store := newStore()

	key, err := Open(store, `HKCU`)
	require.NoError(t, err)
	names, err := key.SubkeyNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Software"}, names)
	require.NoError(t, key.Close())
	assert.Equal(t, 0, store.Leaked())
}

func TestOpen_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing subpath", `HKEY_CURRENT_USER\Software\Missing`},
		{"missing root", `HKEY_LOCAL_MACHINE\System`},
		{"no root name", `Software\Test`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			key, err := Open(store, tt.input)
			require.Error(t, err)
			assert.Nil(t, key)
			assert.Equal(t, types.ErrKindNotFound, errKind(t, err))
			assert.Equal(t, 0, store.Leaked())
		})
	}
}

func errKind(t *testing.T, err error) types.ErrKind {
	t.Helper()
	var typed *types.Error
	require.ErrorAs(t, err, &typed)
	return typed.Kind
}
