// Package sse provides Server-Sent Events client management for editor feedback.
package sse

import (
	"sync"

	"github.com/inkwell-blog/inkwell/internal/model"
)

// Client is one open event stream, scoped to a single draft. The editor
// broadcasts save-state transitions ("saving", "saved", errors) and post
// reload notifications on it.
type Client struct {
	Msg     chan string
	DraftID model.DraftID
}

type Clients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewClients() *Clients {
	return &Clients{
		clients: make(map[*Client]bool),
	}
}

func (s *Clients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *Clients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
	close(client.Msg)
}

// Broadcast sends msg to every client watching draftID. Slow clients are
// skipped rather than blocking the sender.
func (s *Clients) Broadcast(draftID model.DraftID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.DraftID == draftID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
