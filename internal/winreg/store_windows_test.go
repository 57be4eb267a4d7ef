//go:build windows

package winreg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/regjson/internal/rootpath"
	"github.com/joshuapare/regjson/pkg/export"
	"github.com/joshuapare/regjson/pkg/types"
)

const testKeyPath = `Software\regjson-test`

func createTestKey(t *testing.T) {
	t.Helper()
	k, _, err := registry.CreateKey(registry.CURRENT_USER, testKeyPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = registry.DeleteKey(registry.CURRENT_USER, testKeyPath+`\Sub`)
		_ = registry.DeleteKey(registry.CURRENT_USER, testKeyPath)
	})
	defer k.Close()

	require.NoError(t, k.SetStringValue("Name", "abc"))
	require.NoError(t, k.SetStringsValue("Multi", []string{"a", "b"}))
	require.NoError(t, k.SetBinaryValue("Bin", []byte("hi")))
	require.NoError(t, k.SetQWordValue("Big", 1<<40))

	sub, _, err := registry.CreateKey(k, "Sub", registry.ALL_ACCESS)
	require.NoError(t, err)
	defer sub.Close()
	require.NoError(t, sub.SetDWordValue("Count", 5))
}

func TestStore_Export(t *testing.T) {
	createTestKey(t)

	store, err := Open()
	require.NoError(t, err)
	key, err := rootpath.Open(store, `HKEY_CURRENT_USER\`+testKeyPath)
	require.NoError(t, err)
	defer key.Close()

	tree, err := export.Tree(context.Background(), key)
	require.NoError(t, err)
	out, err := export.Marshal(tree, export.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"abc","Multi":["a","b"],"Bin":"hi","Big":1099511627776,"Sub":{"Count":5}}`, string(out))
}

func TestStore_MissingSubkey(t *testing.T) {
	store, err := Open()
	require.NoError(t, err)
	_, err = rootpath.Open(store, `HKEY_CURRENT_USER\Software\regjson-test-does-not-exist`)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStore_VanishedValueIsAbsent(t *testing.T) {
	createTestKey(t)

	store, err := Open()
	require.NoError(t, err)
	key, err := rootpath.Open(store, `HKCU\`+testKeyPath)
	require.NoError(t, err)
	defer key.Close()

	v, err := key.Value("NotThere")
	require.NoError(t, err)
	assert.Equal(t, types.KindAbsent, v.Kind)
}
