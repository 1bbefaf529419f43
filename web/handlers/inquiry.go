package handlers

import (
	"net/http"

	"transit-agent/respond"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InquiryHandler struct {
	responder *respond.Responder
	logger    *zap.Logger
}

type AskRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

type RankRequest struct {
	Message    string `json:"message" binding:"required"`
	MaxResults int    `json:"max_results"`
}

type candidateView struct {
	RecordID string   `json:"record_id"`
	Inquiry  string   `json:"inquiry"`
	Response string   `json:"response"`
	Score    float64  `json:"score"`
	Strategy string   `json:"strategy"`
	Reasons  []string `json:"reasons"`
}

func NewInquiryHandler(responder *respond.Responder, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{responder: responder, logger: logger}
}

// Ask answers an inquiry end to end.
func (h *InquiryHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	answer, err := h.responder.Respond(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("Failed to answer inquiry",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not answer inquiry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":       req.SessionID,
		"answer":           answer.Text,
		"cached":           answer.Cached,
		"validation_score": answer.Validation.Score,
		"valid":            answer.Validation.IsValid,
	})
}

// Rank returns the ranked historical candidates without generating a reply.
func (h *InquiryHandler) Rank(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	candidates, err := h.responder.Rank(c.Request.Context(), req.Message, req.MaxResults)
	if err != nil {
		h.logger.Error("Failed to rank inquiry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not rank inquiry"})
		return
	}

	views := make([]candidateView, 0, len(candidates))
	for _, cand := range candidates {
		views = append(views, candidateView{
			RecordID: cand.Record.ID,
			Inquiry:  cand.Record.InquiryText,
			Response: cand.Record.ResponseText,
			Score:    cand.Score,
			Strategy: string(cand.Strategy),
			Reasons:  cand.Reasons,
		})
	}
	c.JSON(http.StatusOK, gin.H{"candidates": views})
}

// Health reports corpus size and embedding coverage.
func (h *InquiryHandler) Health(c *gin.Context) {
	state, err := h.responder.Engine().CorpusInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "corpus unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"records":        state.Records,
		"with_embedding": state.WithEmbedding,
	})
}
