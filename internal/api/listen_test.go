package facadeapi

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenTCP(t *testing.T) {
	lis, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	require.Equal(t, "tcp", lis.Addr().Network())
}

func TestListenUnixReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facade.sock")
	for _, endpoint := range []string{"unix://" + path, "unix:" + path} {
		lis, err := Listen(endpoint)
		require.NoError(t, err, endpoint)
		conn, err := net.Dial("unix", path)
		require.NoError(t, err)
		_ = conn.Close()
		// 关闭时保留 socket 文件，模拟异常退出后的残留。
		if ul, ok := lis.(*net.UnixListener); ok {
			ul.SetUnlinkOnClose(false)
		}
		require.NoError(t, lis.Close())
	}
}

func TestListenRejectsMalformedEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "unix://", "vsock://abc", "vsock:1:abc", "vsock://x:5000"} {
		_, err := Listen(endpoint)
		require.Error(t, err, endpoint)
	}
}
