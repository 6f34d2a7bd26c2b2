package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mindweave/mindweave/internal/config"
	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/core/session"
	"github.com/mindweave/mindweave/internal/logger"
)

const defaultSessionID = "default"

type Server struct {
	sessions *session.Service
	cfg      *config.Config
	log      *logger.Logger
}

func NewServer(sessions *session.Service, cfg *config.Config, log *logger.Logger) *Server {
	return &Server{sessions: sessions, cfg: cfg, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", s.Health)

	api := r.Group("/api")
	api.GET("", s.Health)

	api.POST("/session/init", s.InitSession)
	api.GET("/session/data", s.GetSessionData)
	api.GET("/session/progress", s.GetProgress)

	api.POST("/mindmap/create", s.CreateMindMap)
	api.POST("/mindmap/generate-child-nodes", s.GenerateChildNodes)
	api.POST("/mindmap/nodes/update-status", s.UpdateNodeStatus)
	api.GET("/mindmap/nodes/:node_id", s.GetNode)

	api.POST("/questions/generate", s.GenerateQuestions)
	api.POST("/questions/answer", s.AnswerQuestion)
	api.POST("/questions/regenerate", s.RegenerateQuestions)
	api.POST("/questions/check-unlockable", s.CheckUnlockable)

	api.GET("/chat/:node_id", s.GetChat)
	api.POST("/chat/:node_id", s.SendChatMessage)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mindweave"})
}

func sessionID(id string) string {
	if id == "" {
		return defaultSessionID
	}
	return id
}

// respondError maps domain errors onto HTTP statuses. Upstream LLM
// failures never reach here; they are absorbed by fallbacks downstream.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

type InitSessionRequest struct {
	SessionID string           `json:"session_id"`
	Nodes     []model.NodeInfo `json:"nodes"`
	Edges     []model.Edge     `json:"edges"`
}

func (s *Server) InitSession(c *gin.Context) {
	var req InitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	id := sessionID(req.SessionID)
	if err := s.sessions.InitializeSession(c.Request.Context(), id, req.Nodes, req.Edges); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

func (s *Server) GetSessionData(c *gin.Context) {
	id := sessionID(c.Query("session_id"))
	sess, err := s.sessions.GetSessionData(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) GetProgress(c *gin.Context) {
	id := sessionID(c.Query("session_id"))
	progress, err := s.sessions.GetProgress(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "progress": progress})
}

type CreateMindMapRequest struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic" binding:"required"`
	MaxDepth  int    `json:"max_depth"`
}

func (s *Server) CreateMindMap(c *gin.Context) {
	var req CreateMindMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = s.cfg.Generation.MaxDepth
	}

	nodes, edges, err := s.sessions.CreateMindMap(
		c.Request.Context(), sessionID(req.SessionID), req.Topic, maxDepth, s.cfg.Generation.MaxChildren)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "edges": edges})
}

type GenerateChildNodesRequest struct {
	SessionID   string `json:"session_id"`
	NodeID      string `json:"node_id" binding:"required"`
	MaxChildren int    `json:"max_children"`
}

func (s *Server) GenerateChildNodes(c *gin.Context) {
	var req GenerateChildNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	maxChildren := req.MaxChildren
	if maxChildren <= 0 {
		maxChildren = s.cfg.Generation.MaxChildren
	}

	nodes, edges, err := s.sessions.ExpandNode(
		c.Request.Context(), sessionID(req.SessionID), req.NodeID, maxChildren)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "edges": edges})
}

type UpdateNodeStatusRequest struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (s *Server) UpdateNodeStatus(c *gin.Context) {
	var req UpdateNodeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := s.sessions.UpdateNodeStatus(
		c.Request.Context(), sessionID(req.SessionID), req.NodeID, model.Status(req.Status))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node_id": req.NodeID, "status": req.Status})
}

func (s *Server) GetNode(c *gin.Context) {
	id := sessionID(c.Query("session_id"))
	data, err := s.sessions.GetNodeData(c.Request.Context(), id, c.Param("node_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"node":        data.Node,
		"node_status": data.Status,
		"parents":     data.Parents,
		"children":    data.Children,
	})
}

type GenerateQuestionsRequest struct {
	SessionID   string `json:"session_id"`
	NodeID      string `json:"node_id" binding:"required"`
	NodeLabel   string `json:"node_label"`
	NodeContent string `json:"node_content"`
}

func (s *Server) GenerateQuestions(c *gin.Context) {
	var req GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	questions, status, err := s.sessions.GenerateQuestions(
		c.Request.Context(), sessionID(req.SessionID), req.NodeID, req.NodeLabel, req.NodeContent)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "node_status": status})
}

type AnswerQuestionRequest struct {
	SessionID  string `json:"session_id"`
	NodeID     string `json:"node_id" binding:"required"`
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

func (s *Server) AnswerQuestion(c *gin.Context) {
	var req AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.sessions.AnswerQuestion(
		c.Request.Context(), sessionID(req.SessionID), req.NodeID, req.QuestionID, req.Answer)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback":    result.Feedback,
		"grade":       result.Grade,
		"passed":      result.Passed,
		"node_status": result.NodeStatus,
		"all_passed":  result.AllPassed,
	})
}

type RegenerateQuestionsRequest struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id" binding:"required"`
}

func (s *Server) RegenerateQuestions(c *gin.Context) {
	var req RegenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := s.sessions.RegenerateQuestions(c.Request.Context(), sessionID(req.SessionID), req.NodeID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node_id": req.NodeID})
}

type CheckUnlockableRequest struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id" binding:"required"`
}

func (s *Server) CheckUnlockable(c *gin.Context) {
	var req CheckUnlockableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	check, err := s.sessions.CheckUnlockable(c.Request.Context(), sessionID(req.SessionID), req.NodeID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"unlockable":               check.Unlockable,
		"reason":                   check.Reason,
		"incomplete_prerequisites": check.Pending,
	})
}

func (s *Server) GetChat(c *gin.Context) {
	id := sessionID(c.Query("session_id"))
	messages, err := s.sessions.GetChat(c.Request.Context(), id, c.Param("node_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"node_id": c.Param("node_id"), "messages": messages})
}

type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

func (s *Server) SendChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := s.sessions.SendChatMessage(
		c.Request.Context(), sessionID(req.SessionID), c.Param("node_id"), req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}
