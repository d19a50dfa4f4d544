package mtd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProcMtd = `dev:    size   erasesize  name
mtd0: 00040000 00020000 "mbm"
mtd1: 00500000 00020000 "boot"
mtd2: 00500000 00020000 "recovery"
mtd3: 0a000000 00020000 "system partition"
`

func TestParseProcMtd(t *testing.T) {
	parts, err := parseProcMtd(strings.NewReader(sampleProcMtd))
	require.NoError(t, err)
	require.Len(t, parts, 4)

	assert.Equal(t, 0, parts[0].Index)
	assert.Equal(t, "mbm", parts[0].Name)
	assert.Equal(t, uint64(0x40000), parts[0].Size)
	assert.Equal(t, uint64(0x20000), parts[0].EraseSize)

	assert.Equal(t, 3, parts[3].Index)
	assert.Equal(t, "system partition", parts[3].Name, "names may contain spaces")
}

func TestParseProcMtdBadSize(t *testing.T) {
	_, err := parseProcMtd(strings.NewReader(`mtd0: zzz 00020000 "boot"` + "\n"))
	assert.Error(t, err)
}

func TestParseProcMtdSkipsJunk(t *testing.T) {
	parts, err := parseProcMtd(strings.NewReader("\n\nshort line\n"))
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestRescanAndFind(t *testing.T) {
	proc := filepath.Join(t.TempDir(), "mtd")
	require.NoError(t, os.WriteFile(proc, []byte(sampleProcMtd), 0o644))

	b := &Backend{procPath: proc}
	require.NoError(t, b.Rescan())

	p := b.FindByName("recovery")
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Index)

	assert.Nil(t, b.FindByName("nosuch"))
}

func TestRescanMissingProcFile(t *testing.T) {
	b := &Backend{procPath: filepath.Join(t.TempDir(), "absent")}
	assert.Error(t, b.Rescan())
}
