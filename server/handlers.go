package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leafprotocol/leafgate/types"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "leafgate",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": gin.H{
			"chat":      "POST /api/chat",
			"leafInfo":  "GET /api/chat/leaf/:leafId",
			"leafCount": "GET /api/chat/leaves/count",
			"health":    "GET /health",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewInputError(types.ReasonMissingFields,
			"missing or malformed fields: leafId, message, txHash, userAddress"))
		return
	}

	resp, err := s.gateway.Chat(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dataResponse{Success: true, Data: resp})
}

func (s *Server) handleLeafCount(c *gin.Context) {
	count, err := s.gateway.LeafCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dataResponse{Success: true, Data: gin.H{"count": count}})
}

func (s *Server) handleLeafInfo(c *gin.Context) {
	leafID, err := strconv.ParseUint(c.Param("leafId"), 10, 64)
	if err != nil || leafID == 0 {
		respondError(c, types.NewInputError(types.ReasonMissingFields,
			"leafId must be a positive integer"))
		return
	}

	view, err := s.gateway.LeafInfo(c.Request.Context(), leafID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dataResponse{Success: true, Data: view})
}
