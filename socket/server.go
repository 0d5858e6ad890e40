package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewServer initializes the Socket.IO server and its room protocol. Clients
// join their own notification room with joinRoom(userId) right after
// connecting, and join/leave a chat's room while viewing it. The socket.io
// server owns the room registry; nothing else tracks who is online.
func NewServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "joinRoom", func(s socketio.Conn, userID string) {
		if userID == "" {
			log.Println("joinRoom with empty userId, ignoring")
			return
		}
		s.Join(userID)
		log.Printf("socket %s joined room %s", s.ID(), userID)
	})

	server.OnEvent("/", "joinChat", func(s socketio.Conn, chatID string) {
		if chatID == "" {
			return
		}
		s.Join(chatID)
	})

	server.OnEvent("/", "leaveChat", func(s socketio.Conn, chatID string) {
		s.Leave(chatID)
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Println("socket error:", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("socket disconnected:", s.ID(), reason)
	})

	return server
}

// Notifier publishes events to rooms. Delivery is best-effort: an event for
// a room with no subscribers is simply dropped, and clients reconcile by
// re-fetching their lists on reconnect.
type Notifier struct {
	server *socketio.Server
}

func NewNotifier(server *socketio.Server) *Notifier {
	return &Notifier{server: server}
}

func (n *Notifier) Emit(room, event string, payload interface{}) {
	n.server.BroadcastToRoom("/", room, event, payload)
}
