package controller

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Live board updates: one connection per open board, keyed by project. The
// mutation handlers push events here so other viewers see changes without
// polling.

type boardEvent struct {
	Event     string      `json:"event"`
	ProjectID uint        `json:"project_id"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

var (
	boardMu      sync.RWMutex
	boardClients = make(map[uint]map[*websocket.Conn]chan boardEvent)
)

// BroadcastProjectEvent fans an event out to every socket watching the
// project. A client whose buffer is full is skipped, not waited on.
func BroadcastProjectEvent(projectID uint, event string, payload interface{}) {
	boardMu.RLock()
	defer boardMu.RUnlock()

	ev := boardEvent{Event: event, ProjectID: projectID, Payload: payload, At: time.Now()}
	for _, ch := range boardClients[projectID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func registerBoardClient(projectID uint, conn *websocket.Conn) chan boardEvent {
	boardMu.Lock()
	defer boardMu.Unlock()

	if boardClients[projectID] == nil {
		boardClients[projectID] = make(map[*websocket.Conn]chan boardEvent)
	}
	ch := make(chan boardEvent, 16)
	boardClients[projectID][conn] = ch
	return ch
}

func unregisterBoardClient(projectID uint, conn *websocket.Conn) {
	boardMu.Lock()
	defer boardMu.Unlock()

	if ch, ok := boardClients[projectID][conn]; ok {
		close(ch)
		delete(boardClients[projectID], conn)
	}
	if len(boardClients[projectID]) == 0 {
		delete(boardClients, projectID)
	}
}

// HandleBoardWS streams board events for one project to a client. Access is
// checked by the HTTP middleware before the upgrade; the project id is
// stashed in Locals by the route.
func HandleBoardWS(c *websocket.Conn) {
	defer c.Close()

	projectID, ok := c.Locals("wsProjectID").(uint)
	if !ok || projectID == 0 {
		return
	}

	ch := registerBoardClient(projectID, c)
	defer unregisterBoardClient(projectID, c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain client frames so pings and close frames are processed.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				log.Printf("board ws write: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
