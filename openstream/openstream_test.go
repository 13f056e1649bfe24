package openstream

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bed.gz")

	w, err := Create(path, "", "")
	require.NoError(t, err)
	_, err = io.WriteString(w, "chr1\t0\t100\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path, "", "")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "chr1\t0\t100\n", string(data))
}

func TestXzRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bed.xz")

	w, err := Create(path, "", "")
	require.NoError(t, err)
	_, err = io.WriteString(w, "chr2\t10\t20\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path, "", "")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "chr2\t10\t20\n", string(data))
}

func TestPlainFileDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t0\t1\n"), 0o644))

	r, err := Open(path, "", "")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "chr1\t0\t1\n", string(data))
}

func TestBzip2RoundTrip(t *testing.T) {
	if _, err := exec.LookPath("bzip2"); err != nil {
		t.Skip("bzip2 binary not available")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bed.bz2")

	w, err := Create(path, "", "")
	require.NoError(t, err)
	_, err = io.WriteString(w, "chr3\t5\t15\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path, "", "")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "chr3\t5\t15\n", string(data))
}

func TestIsSAMLikeForcesOnlyWithExtraArgs(t *testing.T) {
	require.False(t, isSAMLike(".sam", ""))
	require.True(t, isSAMLike(".sam", "-F 4"))
	require.True(t, isSAMLike(".bam", ""))
	require.True(t, isSAMLike(".cram", ""))
	require.False(t, isSAMLike(".gz", ""))
}
