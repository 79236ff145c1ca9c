// SPDX-License-Identifier: EPL-2.0

package types

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// NetworkProtocol is a streaming transport.
type NetworkProtocol uint8

const (
	RTMP NetworkProtocol = iota // default
	HLS                         // input only
	RTP
)

func ParseNetworkProtocol(s string) (NetworkProtocol, error) {
	switch strings.ToLower(s) {
	case "rtmp":
		return RTMP, nil
	case "hls":
		return HLS, nil
	case "rtp":
		return RTP, nil
	}

	return 0, &StreamURLError{URL: s, Reason: "unknown protocol"}
}

func (p NetworkProtocol) DefaultPort() uint16 {
	switch p {
	case HLS:
		return 80
	case RTP:
		return 5004
	}
	return 1935
}

func (p NetworkProtocol) Scheme() string {
	switch p {
	case HLS:
		return "https"
	case RTP:
		return "rtp"
	}
	return "rtmp"
}

func (p NetworkProtocol) String() string {
	switch p {
	case HLS:
		return "HLS"
	case RTP:
		return "RTP"
	}
	return "RTMP"
}

var schemes = []struct {
	prefix   string
	protocol NetworkProtocol
}{
	{"rtmp://", RTMP},
	{"rtmps://", RTMP},
	{"https://", HLS},
	{"http://", HLS},
	{"rtp://", RTP},
}

// StreamURL is a stream location that has already been validated.
type StreamURL struct {
	raw       string
	protocol  NetworkProtocol
	host      string
	port      uint16
	path      string
	streamKey string
	hasKey    bool
}

// ParseStreamURL validates raw. For RTMP the last path segment is taken as
// the stream key.
func ParseStreamURL(raw string) (StreamURL, error) {
	raw = strings.TrimSpace(raw)

	var (
		protocol NetworkProtocol
		rest     string
		matched  bool
	)
	for _, s := range schemes {
		if r, ok := strings.CutPrefix(raw, s.prefix); ok {
			protocol, rest, matched = s.protocol, r, true
			break
		}
	}
	if !matched {
		return StreamURL{}, &StreamURLError{URL: raw, Reason: "missing or unsupported protocol scheme"}
	}

	hostPort, path, _ := strings.Cut(rest, "/")
	host, portStr, hasPort := strings.Cut(hostPort, ":")
	port := protocol.DefaultPort()
	if hasPort {
		p, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return StreamURL{}, &StreamURLError{URL: raw, Reason: "invalid port: " + portStr}
		}
		port = uint16(p)
	}
	if host == "" {
		return StreamURL{}, &StreamURLError{URL: raw, Reason: "empty host"}
	}

	u := StreamURL{raw: raw, protocol: protocol, host: host, port: port, path: path}
	if protocol == RTMP {
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			u.path, u.streamKey, u.hasKey = path[:i], path[i+1:], true
		} else if path != "" {
			u.path, u.streamKey, u.hasKey = "", path, true
		}
	}

	return u, nil
}

func (u StreamURL) Protocol() NetworkProtocol { return u.protocol }
func (u StreamURL) Host() string              { return u.host }
func (u StreamURL) Port() uint16              { return u.port }
func (u StreamURL) Path() string              { return u.path }
func (u StreamURL) String() string            { return u.raw }

// StreamKey returns the RTMP stream key, if the url carried one.
func (u StreamURL) StreamKey() (string, bool) { return u.streamKey, u.hasKey }

// ResolveAddr resolves host:port to the first address the resolver returns.
func (u StreamURL) ResolveAddr(ctx context.Context) (net.Addr, error) {
	hostPort := net.JoinHostPort(u.host, strconv.Itoa(int(u.port)))

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, u.host)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve %s: %w", ErrNetworkConnection, hostPort, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: no address found for %s", ErrNetworkConnection, hostPort)
	}

	return &net.TCPAddr{IP: ips[0].IP, Port: int(u.port), Zone: ips[0].Zone}, nil
}

// StreamBitrate is an encoder bitrate in bits per second.
type StreamBitrate uint32

const (
	Kbps128 StreamBitrate = 128_000
	Kbps192 StreamBitrate = 192_000
	Kbps256 StreamBitrate = 256_000
	Kbps320 StreamBitrate = 320_000

	DefaultBitrate = Kbps192
)

func BitrateFromKbps(kbps uint32) StreamBitrate { return StreamBitrate(kbps * 1000) }

func (b StreamBitrate) Bps() uint32    { return uint32(b) }
func (b StreamBitrate) Kbps() uint32   { return uint32(b) / 1000 }
func (b StreamBitrate) String() string { return fmt.Sprintf("%d kbps", b.Kbps()) }
