/*
Copyright © 2026 toastfacek
*/

package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Its uuid doubles as the player id for
// any room it joins.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan any
	limiter *rate.Limiter
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan any, 16),
		limiter: rate.NewLimiter(10, 30),
	}
}

func serveWS(cfg *Config, co *Coordinator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := newClient(conn)
		logf(cfg, "SOCKS: Client %s connected from %s", client.id, realIP(r))

		co.register <- client

		go client.writePump()
		client.readPump(cfg, co)
	}
}

func (c *Client) readPump(cfg *Config, co *Coordinator) {
	defer func() {
		co.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if !c.limiter.Allow() {
			logf(cfg, "SOCKS: Dropping %q from %s: rate limit exceeded", msg.Type, c.id)
			continue
		}

		co.inbox <- envelope{from: c, msg: msg}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// roomQRHandler generates a PNG QR code pointing at the join URL for a live
// room, for passing a phone around the couch.
func roomQRHandler(cfg *Config, co *Coordinator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("code")
		if !validRoomCode(code) || !co.roomExists(code) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// Respect TLS and X-Forwarded-Proto when deriving the scheme.
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/join/" + code

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// registerPromptGame wires the game's routes:
//   - $prefix/ws             → the websocket channel
//   - $prefix/room/:code/qr  → PNG QR code for a live room's join URL
func registerPromptGame(cfg *Config, co *Coordinator, mux *httprouter.Router) {
	prefix := strings.TrimSuffix(cfg.prefix, "/")

	mux.GET(prefix+"/ws", serveWS(cfg, co))
	mux.GET(prefix+"/room/:code/qr", roomQRHandler(cfg, co))
}
