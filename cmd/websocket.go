package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"easyserve/internal/models"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
	// time allowed for the first frame {userId, role}
	firstHelloDeadline = 30 * time.Second
)

type directMsg struct {
	clientKey string
	msg       models.BookingMessage
}

type unreg struct {
	clientKey string
	conn      *websocket.Conn
}

type Client struct {
	Key    string
	Socket *websocket.Conn
}

// WebSocketManager pushes booking thread messages to connected clients.
// Requesters and providers live in separate id spaces, so clients are keyed
// by role:id.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn
	direct     chan directMsg
	register   chan Client
	unregister chan unreg
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*websocket.Conn),
		direct:     make(chan directMsg),
		register:   make(chan Client),
		unregister: make(chan unreg),
	}
}

func clientKey(role string, id int) string {
	return fmt.Sprintf("%s:%d", role, id)
}

// NotifyMessage delivers a new thread message to the counterparty. Offline
// clients simply miss the push and catch up over the REST thread.
func (ws *WebSocketManager) NotifyMessage(b models.Booking, msg models.BookingMessage) {
	var key string
	if msg.SenderRole == models.SenderRoleUser {
		key = clientKey(models.SenderRoleProvider, b.ProviderID)
	} else {
		key = clientKey(models.SenderRoleUser, b.UserID)
	}

	select {
	case ws.direct <- directMsg{clientKey: key, msg: msg}:
	default:
		log.Printf("ws: dropping push for %s, manager busy", key)
	}
}

// Run owns the clients map; all mutation happens on this goroutine.
func (ws *WebSocketManager) Run() {
	for {
		select {
		case client := <-ws.register:
			if old, ok := ws.clients[client.Key]; ok && old != nil && old != client.Socket {
				old.Close()
			}
			ws.clients[client.Key] = client.Socket
			log.Printf("WS register %s", client.Key)

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.clientKey]; ok && cur == u.conn {
				cur.Close()
				delete(ws.clients, u.clientKey)
				log.Printf("WS unregister %s", u.clientKey)
			}

		case dm := <-ws.direct:
			if conn, ok := ws.clients[dm.clientKey]; ok {
				conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(dm.msg); err != nil {
					log.Printf("ws: direct send error to=%s: %v", dm.clientKey, err)
					conn.Close()
					delete(ws.clients, dm.clientKey)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// WebSocketHandler upgrades the connection. The first frame must carry
// { "userId": <int>, "role": "user"|"provider" }.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(firstHelloDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	var hello struct {
		UserID int    `json:"userId"`
		Role   string `json:"role"`
	}
	if err := conn.ReadJSON(&hello); err != nil || hello.UserID == 0 {
		log.Println("ws: invalid hello payload:", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "hello required"),
			time.Now().Add(writeDeadline))
		conn.Close()
		return
	}
	if hello.Role != models.SenderRoleProvider {
		hello.Role = models.SenderRoleUser
	}
	conn.SetReadDeadline(time.Now().Add(readDeadline))

	key := clientKey(hello.Role, hello.UserID)
	app.wsManager.register <- Client{Key: key, Socket: conn}

	go pingLoop(app.wsManager, conn, key)
	go readLoop(app.wsManager, conn, key)
}

func pingLoop(ws *WebSocketManager, conn *websocket.Conn, key string) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			ws.unregister <- unreg{clientKey: key, conn: conn}
			return
		}
	}
}

// readLoop drains the connection; thread messages go through the REST API,
// the socket is push-only.
func readLoop(ws *WebSocketManager, conn *websocket.Conn, key string) {
	defer func() {
		ws.unregister <- unreg{clientKey: key, conn: conn}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))
	}
}
