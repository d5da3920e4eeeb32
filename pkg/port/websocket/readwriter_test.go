package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestReadWriter(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		rw := New(conn)
		for {
			pkt, err := rw.ReadPacket()
			if err != nil {
				return
			}
			if err = rw.WritePacket(append(pkt, 0xff)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	rw, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), srv.URL)
	require.NoError(t, err)
	defer rw.Close()
	for _, unit := range [][]byte{{1, 2}, {0xc0, 0xdb}} {
		require.NoError(t, rw.WritePacket(unit))
		pkt, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, append(unit, 0xff), pkt)
	}
}
