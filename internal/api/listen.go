package facadeapi

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/mdlayher/vsock"
)

// Listen 按端点格式创建监听器：host:port、unix:///path、unix:/path、vsock://port、vsock://cid:port。
func Listen(endpoint string) (net.Listener, error) {
	endpoint = strings.TrimSpace(endpoint)
	switch {
	case strings.HasPrefix(endpoint, "unix://"):
		return listenUnix(strings.TrimPrefix(endpoint, "unix://"))
	case strings.HasPrefix(endpoint, "unix:"):
		return listenUnix(strings.TrimPrefix(endpoint, "unix:"))
	case strings.HasPrefix(endpoint, "vsock://"):
		return listenVsock(strings.TrimPrefix(endpoint, "vsock://"))
	case strings.HasPrefix(endpoint, "vsock:"):
		return listenVsock(strings.TrimPrefix(endpoint, "vsock:"))
	case endpoint == "":
		return nil, fmt.Errorf("empty listen endpoint")
	default:
		return net.Listen("tcp", endpoint)
	}
}

func listenUnix(path string) (net.Listener, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid unix endpoint: empty path")
	}
	// 上次异常退出可能残留 socket 文件。
	if info, err := os.Stat(path); err == nil && info.Mode()&os.ModeSocket != 0 {
		_ = os.Remove(path)
	}
	return net.Listen("unix", path)
}

func listenVsock(target string) (net.Listener, error) {
	cidPart, portPart, hasCID := strings.Cut(target, ":")
	if !hasCID {
		portPart = cidPart
	}
	port, err := strconv.ParseUint(portPart, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid vsock port: %w", err)
	}
	if !hasCID {
		return vsock.Listen(uint32(port), nil)
	}
	cid, err := strconv.ParseUint(cidPart, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid vsock cid: %w", err)
	}
	return vsock.ListenContextID(uint32(cid), uint32(port), nil)
}
