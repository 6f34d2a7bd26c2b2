package model

import "time"

// IDSet is a set of node ids. Marshals as {"id": true, ...} so sessions
// survive a JSON round trip through the Redis store.
type IDSet map[string]bool

func (s IDSet) Add(id string) { s[id] = true }

func (s IDSet) Contains(id string) bool { return s[id] }

// Relationships is the adjacency index derived from the edge list. It is
// never edited directly; rebuild it whenever edges change.
type Relationships struct {
	Parents  map[string]IDSet `json:"parents"`
	Children map[string]IDSet `json:"children"`
}

func NewRelationships() *Relationships {
	return &Relationships{
		Parents:  make(map[string]IDSet),
		Children: make(map[string]IDSet),
	}
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type NodeChat struct {
	NodeID    string        `json:"node_id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Session is the consistency boundary: one mutable aggregate per learner
// session. All mutations go through the store's per-session lock.
type Session struct {
	ID            string                 `json:"session_id"`
	Nodes         map[string]*NodeInfo   `json:"nodes"`
	Edges         []Edge                 `json:"edges"`
	Progress      map[string]*NodeStatus `json:"progress"`
	Relationships *Relationships         `json:"relationships"`
	Chats         map[string]*NodeChat   `json:"chat_history"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            id,
		Nodes:         make(map[string]*NodeInfo),
		Progress:      make(map[string]*NodeStatus),
		Relationships: NewRelationships(),
		Chats:         make(map[string]*NodeChat),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy. Reads from the store hand out clones so a
// caller can never mutate shared state outside the session lock.
func (s *Session) Clone() *Session {
	c := &Session{
		ID:            s.ID,
		Nodes:         make(map[string]*NodeInfo, len(s.Nodes)),
		Edges:         append([]Edge(nil), s.Edges...),
		Progress:      make(map[string]*NodeStatus, len(s.Progress)),
		Relationships: s.Relationships.clone(),
		Chats:         make(map[string]*NodeChat, len(s.Chats)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for id, n := range s.Nodes {
		nc := *n
		c.Nodes[id] = &nc
	}
	for id, st := range s.Progress {
		sc := *st
		sc.Questions = append([]Question(nil), st.Questions...)
		sc.ArchivedQuestions = append([]Question(nil), st.ArchivedQuestions...)
		c.Progress[id] = &sc
	}
	for id, ch := range s.Chats {
		cc := *ch
		cc.Messages = append([]ChatMessage(nil), ch.Messages...)
		c.Chats[id] = &cc
	}
	return c
}

func (r *Relationships) clone() *Relationships {
	if r == nil {
		return NewRelationships()
	}
	c := NewRelationships()
	for id, set := range r.Parents {
		cs := make(IDSet, len(set))
		for k := range set {
			cs.Add(k)
		}
		c.Parents[id] = cs
	}
	for id, set := range r.Children {
		cs := make(IDSet, len(set))
		for k := range set {
			cs.Add(k)
		}
		c.Children[id] = cs
	}
	return c
}
