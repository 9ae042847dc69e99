package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/ssworld/pkg/render"
	"github.com/rubiojr/ssworld/pkg/view"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxLiveMessage = 4096
	liveOutBuffer  = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// HandleLive runs one browsing session over a websocket. The client sends
// query, more and clear requests; the server answers each with a rendered
// page and pushes a fresh page whenever records change.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan LiveMessage, liveOutBuffer)
	send := func(m LiveMessage) {
		select {
		case out <- m:
		case <-ctx.Done():
		}
	}
	sendPage := func(p render.Page) { send(LiveMessage{Type: livePage, Page: &p}) }

	o := s.options()
	sess := view.NewSession(s.store, view.Options{
		PageSize: o.PageSize,
		Debounce: o.Debounce,
		Location: o.Location,
		Now:      o.Now,
		OnUpdate: sendPage,
	})
	defer sess.Close()

	go s.liveWriter(ctx, cancel, conn, out)

	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	if p, err := sess.Refresh(ctx); err != nil {
		send(LiveMessage{Type: liveError, Message: err.Error()})
	} else {
		sendPage(p)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.logger.Debugf("live session %d: record %s %s", id, ev.ID, ev.Type)
				p, err := sess.Refresh(ctx)
				if err != nil {
					send(LiveMessage{Type: liveError, Message: err.Error()})
					continue
				}
				sendPage(p)
			}
		}
	}()

	conn.SetReadLimit(maxLiveMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("live session %d closed: %v", id, err)
			}
			return
		}

		switch req.Type {
		case liveQuery:
			sess.Type(req.Query)
		case liveMore:
			sendPage(sess.LoadMore())
		case liveClear:
			sendPage(sess.Clear())
		default:
			send(LiveMessage{Type: liveError, Message: "unknown request type " + req.Type})
		}
	}
}

// liveWriter is the only goroutine that writes to conn.
func (s *Server) liveWriter(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan LiveMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case m := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				s.logger.Debugf("live write failed: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
