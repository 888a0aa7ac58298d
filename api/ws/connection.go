// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// connection is one websocket client. Reads happen only in readPump and
// writes only in writePump.
type connection struct {
	s    *Server
	d    Dispatcher
	conn *websocket.Conn

	l      sync.Mutex
	send   chan []byte
	closed bool
}

// Send queues [msg] and reports false if the connection is closed or too far
// behind.
func (c *connection) Send(msg []byte) bool {
	c.l.Lock()
	defer c.l.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// deactivate stops accepting messages. writePump flushes what is queued and
// then closes the socket.
func (c *connection) deactivate() {
	c.l.Lock()
	defer c.l.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *connection) readPump() {
	defer func() {
		c.s.remove(c)
		c.deactivate()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(maxCommandFrame))
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.cfg.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.cfg.PongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.s.log.Debug("unexpected close in websockets",
					zap.Error(err),
				)
			}
			return
		}
		c.s.handle(c, msg)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(c.s.cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		c.s.remove(c)
		c.deactivate()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.cfg.WriteWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to write message"),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.cfg.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// connections is a locked set of clients.
type connections struct {
	l     sync.RWMutex
	conns set.Set[*connection]
}

func (c *connections) Add(conn *connection) {
	c.l.Lock()
	defer c.l.Unlock()

	c.conns.Add(conn)
}

func (c *connections) Remove(conn *connection) {
	c.l.Lock()
	defer c.l.Unlock()

	c.conns.Remove(conn)
}

func (c *connections) List() []*connection {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.conns.List()
}

func (c *connections) Len() int {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.conns.Len()
}
