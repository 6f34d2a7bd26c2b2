package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave/internal/core/assessment"
	"github.com/mindweave/mindweave/internal/core/chat"
	"github.com/mindweave/mindweave/internal/core/lifecycle"
	"github.com/mindweave/mindweave/internal/core/mindmap"
	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/core/relationships"
	"github.com/mindweave/mindweave/internal/driver"
	"github.com/mindweave/mindweave/internal/logger"
	"github.com/mindweave/mindweave/internal/store"
)

// Service is the session aggregate: every session mutation funnels through
// the store's per-session lock, and the relationship index is rebuilt in
// the same critical section as any edge change.
//
// LLM calls happen outside the lock; their results are committed with an
// idempotence re-check afterwards, so a multi-second generation never
// blocks other operations on the session.
type Service struct {
	store      store.Store
	generator  *mindmap.Generator
	assessment *assessment.Engine
	chat       *chat.Service
	mirror     *driver.Mirror
	rule       lifecycle.UnlockRule
	log        *logger.Logger
}

func NewService(
	st store.Store,
	generator *mindmap.Generator,
	engine *assessment.Engine,
	chatSvc *chat.Service,
	mirror *driver.Mirror,
	rule lifecycle.UnlockRule,
	log *logger.Logger,
) *Service {
	return &Service{
		store:      st,
		generator:  generator,
		assessment: engine,
		chat:       chatSvc,
		mirror:     mirror,
		rule:       rule,
		log:        log,
	}
}

// InitializeSession replaces the session's nodes and edges with the given
// raw lists and rebuilds the relationship index atomically. The graph
// mirror is reset first so it reflects only the new graph.
func (s *Service) InitializeSession(ctx context.Context, sessionID string, nodes []model.NodeInfo, edges []model.Edge) error {
	err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		for i := range nodes {
			n := nodes[i]
			sess.Nodes[n.ID] = &n
		}
		for _, e := range edges {
			appendEdge(sess, e)
		}
		sess.Relationships = relationships.Build(sess.Edges, s.log)
		return nil
	})
	if err != nil {
		return err
	}

	s.mirror.Reset(ctx, sessionID)
	s.mirror.MirrorMap(ctx, sessionID, nodes, edges)
	return nil
}

// CreateMindMap generates a full tree for the topic, lays it out, and
// commits it: root not_started, every other node locked.
func (s *Service) CreateMindMap(ctx context.Context, sessionID, topic string, maxDepth, maxChildren int) ([]model.NodeInfo, []model.Edge, error) {
	tree := s.generator.GenerateTree(ctx, topic, maxDepth, maxChildren)
	nodes, edges := mindmap.Layout(tree)

	err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		for i := range nodes {
			n := nodes[i]
			sess.Nodes[n.ID] = &n

			status := model.StatusLocked
			if n.ID == mindmap.RootID {
				status = model.StatusNotStarted
			}
			sess.Progress[n.ID] = &model.NodeStatus{NodeID: n.ID, Status: status}
		}
		for _, e := range edges {
			appendEdge(sess, e)
		}
		sess.Relationships = relationships.Build(sess.Edges, s.log)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.mirror.MirrorMap(ctx, sessionID, nodes, edges)
	s.log.Info("mind map created", "session_id", sessionID, "topic", topic, "nodes", len(nodes))
	return nodes, edges, nil
}

// ExpandNode generates one level of children beneath an existing node and
// commits them locked, positioned on a semicircle under the parent. It
// uses the same retry policy as full tree generation; exhausted retries
// yield empty lists, not an error. Child ids are normalized against the
// session's existing node ids inside the critical section, so a missing
// or duplicate id can never clobber a stored node.
func (s *Service) ExpandNode(ctx context.Context, sessionID, nodeID string, maxChildren int) ([]model.NodeInfo, []model.Edge, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	parent, ok := sess.Nodes[nodeID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
	}

	children := s.generator.ChildrenWithRetry(ctx, model.MapNode{
		ID:      parent.ID,
		Label:   parent.Label,
		Content: parent.Content,
	}, maxChildren)
	if len(children) == 0 {
		s.log.Warn("node expansion produced no children", "session_id", sessionID, "node_id", nodeID)
		return []model.NodeInfo{}, []model.Edge{}, nil
	}

	var nodes []model.NodeInfo
	var edges []model.Edge
	err = s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		parent, ok := sess.Nodes[nodeID]
		if !ok {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}

		taken := make(map[string]bool, len(sess.Nodes))
		for id := range sess.Nodes {
			taken[id] = true
		}
		mindmap.NormalizeChildIDs(nodeID, children, taken)

		positions := mindmap.SemicirclePositions(parent.Position, len(children))
		nodes = make([]model.NodeInfo, 0, len(children))
		edges = make([]model.Edge, 0, len(children))
		for i, c := range children {
			n := model.NodeInfo{
				ID:       c.ID,
				Label:    c.Label,
				Content:  c.Content,
				Type:     "mindmap",
				Position: positions[i],
			}
			nodes = append(nodes, n)
			edges = append(edges, model.Edge{
				ID:     fmt.Sprintf("e-%s-%s", nodeID, c.ID),
				Source: nodeID,
				Target: c.ID,
			})

			stored := n
			sess.Nodes[n.ID] = &stored
			if _, ok := sess.Progress[n.ID]; !ok {
				sess.Progress[n.ID] = &model.NodeStatus{NodeID: n.ID, Status: model.StatusLocked}
			}
		}
		for _, e := range edges {
			appendEdge(sess, e)
		}
		sess.Relationships = relationships.Build(sess.Edges, s.log)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.mirror.MirrorMap(ctx, sessionID, nodes, edges)
	return nodes, edges, nil
}

// GenerateQuestions returns the node's questions, generating them on
// first call. Label and content stage the node into the session when it
// arrived out of order. Existing questions are returned unchanged.
func (s *Service) GenerateQuestions(ctx context.Context, sessionID, nodeID, label, content string) ([]model.Question, *model.NodeStatus, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if st, ok := sess.Progress[nodeID]; ok && len(st.Questions) > 0 {
		return st.Questions, st, nil
	}

	if n, ok := sess.Nodes[nodeID]; ok {
		if label == "" {
			label = n.Label
		}
		if content == "" {
			content = n.Content
		}
	}
	parents, children := s.relatedContext(sess, nodeID)
	questions := s.assessment.GenerateQuestions(ctx, content, label, parents, children)

	var result *model.NodeStatus
	err = s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if _, ok := sess.Nodes[nodeID]; !ok {
			sess.Nodes[nodeID] = &model.NodeInfo{ID: nodeID, Label: label, Content: content, Type: "mindmap"}
		}
		st, ok := sess.Progress[nodeID]
		if !ok {
			st = &model.NodeStatus{NodeID: nodeID, Status: model.StatusNotStarted}
			sess.Progress[nodeID] = st
		}
		// Another request may have generated questions meanwhile.
		if len(st.Questions) == 0 {
			st.Questions = questions
		}
		copied := *st
		copied.Questions = append([]model.Question(nil), st.Questions...)
		result = &copied
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result.Questions, result, nil
}

// AnswerResult is the outcome of one answer submission.
type AnswerResult struct {
	Feedback   string
	Grade      int
	Passed     bool
	NodeStatus model.Status
	AllPassed  bool
}

// AnswerQuestion evaluates the answer and applies the lifecycle side
// effects: attempts increment, question status, first-answer transition to
// in_progress, and completion when every question has passed.
func (s *Service) AnswerQuestion(ctx context.Context, sessionID, nodeID, questionID, answer string) (*AnswerResult, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st, ok := sess.Progress[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
	}
	question := findQuestion(st.Questions, questionID)
	if question == nil {
		return nil, fmt.Errorf("%w: question %s", model.ErrNotFound, questionID)
	}

	var nodeContent string
	if n, ok := sess.Nodes[nodeID]; ok {
		nodeContent = n.Content
	}
	eval := s.assessment.EvaluateAnswer(ctx, question.Text, answer, nodeContent)

	result := &AnswerResult{Feedback: eval.Feedback, Grade: eval.Grade, Passed: eval.Passed}
	err = s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		st, ok := sess.Progress[nodeID]
		if !ok {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		q := findQuestion(st.Questions, questionID)
		if q == nil {
			return fmt.Errorf("%w: question %s", model.ErrNotFound, questionID)
		}

		now := time.Now().UTC()
		lifecycle.MarkStarted(st, now)

		q.Attempts++
		q.LastAnswer = answer
		q.Feedback = eval.Feedback
		grade := eval.Grade
		q.Grade = &grade
		if eval.Passed {
			q.Status = model.QuestionPassed
		} else {
			q.Status = model.QuestionFailed
		}
		t := now
		q.UpdatedAt = &t

		lifecycle.CompleteIfAllPassed(st, now)
		result.NodeStatus = st.Status
		result.AllPassed = lifecycle.AllPassed(st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegenerateQuestions archives the node's current question set and resets
// its status for a fresh attempt.
func (s *Service) RegenerateQuestions(ctx context.Context, sessionID, nodeID string) error {
	return s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		st, ok := sess.Progress[nodeID]
		if !ok {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		lifecycle.Regenerate(st)
		return nil
	})
}

// UnlockCheck is the unlock predicate result for one node.
type UnlockCheck struct {
	Unlockable bool
	Reason     string
	Pending    []string
}

// CheckUnlockable evaluates the configured unlock rule for the node and
// refreshes the cached flag. No other state changes.
func (s *Service) CheckUnlockable(ctx context.Context, sessionID, nodeID string) (*UnlockCheck, error) {
	var check *UnlockCheck
	err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if !nodeKnown(sess, nodeID) {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		res := lifecycle.CheckUnlockable(nodeID, sess.Relationships, sess.Progress, s.rule)
		if st, ok := sess.Progress[nodeID]; ok {
			st.Unlockable = res.Unlockable
		}

		reason := "all prerequisites completed"
		if !res.Unlockable {
			reason = fmt.Sprintf("%d prerequisite node(s) not yet completed", len(res.Pending))
		}
		pending := res.Pending
		if pending == nil {
			pending = []string{}
		}
		check = &UnlockCheck{Unlockable: res.Unlockable, Reason: reason, Pending: pending}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

// UpdateNodeStatus applies a manual status override.
func (s *Service) UpdateNodeStatus(ctx context.Context, sessionID, nodeID string, status model.Status) error {
	return s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if !status.Valid() {
			return fmt.Errorf("%w: invalid status %q", model.ErrInvalidInput, status)
		}
		if !nodeKnown(sess, nodeID) {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		st, ok := sess.Progress[nodeID]
		if !ok {
			st = &model.NodeStatus{NodeID: nodeID, Status: model.StatusLocked}
			sess.Progress[nodeID] = st
		}
		return lifecycle.ApplyManualStatus(st, status, time.Now().UTC())
	})
}

// GetSessionData returns the full session view.
func (s *Service) GetSessionData(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// GetProgress returns the node status map alone.
func (s *Service) GetProgress(ctx context.Context, sessionID string) (map[string]*model.NodeStatus, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Progress, nil
}

// NodeData is a single node's scoped view with its related context.
type NodeData struct {
	Node     *model.NodeInfo
	Status   *model.NodeStatus
	Parents  []model.NodeContext
	Children []model.NodeContext
}

// GetNodeData returns one node with its progress and parent/child context.
func (s *Service) GetNodeData(ctx context.Context, sessionID, nodeID string) (*NodeData, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	node, ok := sess.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
	}
	parents, children := s.relatedContext(sess, nodeID)
	return &NodeData{
		Node:     node,
		Status:   sess.Progress[nodeID],
		Parents:  parents,
		Children: children,
	}, nil
}

// GetChat returns a node's chat history, seeding the deterministic
// welcome message on first read.
func (s *Service) GetChat(ctx context.Context, sessionID, nodeID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		node, ok := sess.Nodes[nodeID]
		if !ok {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		ch, ok := sess.Chats[nodeID]
		if !ok {
			now := time.Now().UTC()
			ch = &model.NodeChat{
				NodeID:    nodeID,
				Messages:  []model.ChatMessage{s.chat.WelcomeMessage(node)},
				CreatedAt: now,
				UpdatedAt: now,
			}
			sess.Chats[nodeID] = ch
		}
		messages = append([]model.ChatMessage(nil), ch.Messages...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SendChatMessage appends the user's message and the tutor's reply to the
// node's chat and returns the reply. The reply degrades to a fixed
// message on upstream failure, never an error.
func (s *Service) SendChatMessage(ctx context.Context, sessionID, nodeID, content string) (model.ChatMessage, error) {
	history, err := s.GetChat(ctx, sessionID, nodeID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	node, ok := sess.Nodes[nodeID]
	if !ok {
		return model.ChatMessage{}, fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
	}

	now := time.Now().UTC()
	userMsg := model.ChatMessage{ID: newMessageID(), Role: "user", Content: content, CreatedAt: now}

	parents, children := s.relatedContext(sess, nodeID)
	reply := s.chat.Reply(ctx, node, append(history, userMsg), parents, children)
	assistantMsg := model.ChatMessage{ID: newMessageID(), Role: "assistant", Content: reply, CreatedAt: time.Now().UTC()}

	err = s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		ch, ok := sess.Chats[nodeID]
		if !ok {
			return fmt.Errorf("%w: node %s", model.ErrNotFound, nodeID)
		}
		ch.Messages = append(ch.Messages, userMsg, assistantMsg)
		ch.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return model.ChatMessage{}, err
	}
	return assistantMsg, nil
}

func (s *Service) relatedContext(sess *model.Session, nodeID string) (parents, children []model.NodeContext) {
	for id := range sess.Relationships.Parents[nodeID] {
		if n, ok := sess.Nodes[id]; ok {
			parents = append(parents, model.NodeContext{Label: n.Label, Content: n.Content})
		}
	}
	for id := range sess.Relationships.Children[nodeID] {
		if n, ok := sess.Nodes[id]; ok {
			children = append(children, model.NodeContext{Label: n.Label, Content: n.Content})
		}
	}
	return parents, children
}

// appendEdge adds the edge unless its id is already present.
func appendEdge(sess *model.Session, e model.Edge) {
	for _, existing := range sess.Edges {
		if existing.ID == e.ID {
			return
		}
	}
	sess.Edges = append(sess.Edges, e)
}

func findQuestion(questions []model.Question, id string) *model.Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}

func newMessageID() string {
	return uuid.New().String()
}

func nodeKnown(sess *model.Session, nodeID string) bool {
	if _, ok := sess.Nodes[nodeID]; ok {
		return true
	}
	_, ok := sess.Progress[nodeID]
	return ok
}
