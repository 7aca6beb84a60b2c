package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the chat API routes.
func RegisterRoutes(r chi.Router, svc *Service, logger *zap.Logger) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", handleAsk(svc))
		r.Get("/ws", handleWebSocket(svc, logger))
		r.Get("/sessions/{id}/messages", handleMessages(svc))
	})
}

func handleAsk(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}

		resp, err := svc.Ask(r.Context(), req)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleMessages(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		messages, err := svc.chats.Messages(r.Context(), sessionID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if messages == nil {
			messages = []Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(messages)
	}
}

// wsFrame is the websocket message format, shared by both directions.
type wsFrame struct {
	Type      string `json:"type"` // "message", "response" or "error"
	SessionID string `json:"sessionId,omitempty"`
	Patient   string `json:"patient,omitempty"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
}

func handleWebSocket(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read", zap.Error(err))
				}
				return
			}

			var frame wsFrame
			if err := json.Unmarshal(msg, &frame); err != nil {
				writeFrame(conn, wsFrame{Type: "error", Content: "invalid message format"})
				continue
			}
			if frame.Content == "" {
				writeFrame(conn, wsFrame{Type: "error", SessionID: frame.SessionID, Content: "content is required"})
				continue
			}

			resp, err := svc.Ask(r.Context(), Request{
				SessionID: frame.SessionID,
				Patient:   frame.Patient,
				Message:   frame.Content,
			})
			if err != nil {
				writeFrame(conn, wsFrame{Type: "error", SessionID: frame.SessionID, Content: err.Error()})
				continue
			}

			writeFrame(conn, wsFrame{
				Type:      "response",
				SessionID: resp.SessionID,
				Content:   resp.Answer,
				HTML:      resp.HTML,
			})
		}
	}
}

func writeFrame(conn *websocket.Conn, frame wsFrame) {
	conn.WriteJSON(frame)
}
