package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/numfmt"
	"github.com/nmorales/patrimonio-backend/internal/usecase/investment"
	"github.com/nmorales/patrimonio-backend/internal/usecase/ledger"
)

type createInvestmentRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required"`
	// TargetAmountUSD uses the plain convention
	TargetAmountUSD string `json:"targetAmountUsd" binding:"required"`
	StartDate       string `json:"startDate" binding:"required"`
	FiscalStatus    string `json:"fiscalStatus" binding:"required"`
}

// CreateInvestment handles POST /investments
func (s *Server) CreateInvestment(c *gin.Context) {
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	target, err := numfmt.Normalize(req.TargetAmountUSD, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "startDate must be YYYY-MM-DD")
		return
	}

	created, err := s.Investments.CreateInvestment(c.Request.Context(),
		req.Name, domain.InvestmentKind(req.Kind), target, startDate, domain.FiscalStatus(req.FiscalStatus))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": created.ID, "name": created.Name})
}

// UpdateInvestment handles PUT /investments/:id
func (s *Server) UpdateInvestment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	target, err := numfmt.Normalize(req.TargetAmountUSD, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "startDate must be YYYY-MM-DD")
		return
	}

	updated, err := s.Investments.UpdateInvestment(c.Request.Context(),
		id, req.Name, domain.InvestmentKind(req.Kind), target, startDate, domain.FiscalStatus(req.FiscalStatus))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": updated.ID, "name": updated.Name})
}

// ListInvestments handles GET /investments
func (s *Server) ListInvestments(c *gin.Context) {
	investments, err := s.Investments.ListInvestments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]gin.H, 0, len(investments))
	for _, inv := range investments {
		response = append(response, investmentStateResponse(inv))
	}

	c.JSON(http.StatusOK, response)
}

// DeleteInvestment handles DELETE /investments/:id
func (s *Server) DeleteInvestment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.Investments.DeleteInvestment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addEventRequest struct {
	Kind string `json:"kind" binding:"required"`
	// AmountUSD uses the plain convention
	AmountUSD string `json:"amountUsd" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Note      string `json:"note"`
}

// AddInvestmentEvent handles POST /investments/:id/events
func (s *Server) AddInvestmentEvent(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req addEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	amount, err := numfmt.Normalize(req.AmountUSD, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}

	eventDate, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	event, err := s.Investments.AddEvent(c.Request.Context(), id,
		domain.InvestmentEventKind(req.Kind), amount, eventDate, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        event.ID,
		"kind":      event.Kind,
		"amountUsd": event.AmountUSD.String(),
		"date":      event.Date.Format(dateLayout),
	})
}

// GetInvestmentState handles GET /investments/:id/state
func (s *Server) GetInvestmentState(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	state, err := s.Investments.GetState(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investmentStateResponse(state))
}

func investmentStateResponse(inv *investment.InvestmentWithState) gin.H {
	return gin.H{
		"id":              inv.Investment.ID,
		"name":            inv.Investment.Name,
		"kind":            inv.Investment.Kind,
		"targetAmountUsd": inv.Investment.TargetAmountUSD.String(),
		"startDate":       inv.Investment.StartDate.Format(dateLayout),
		"fiscalStatus":    inv.Investment.FiscalStatus,
		"state":           stateBody(inv.State),
	}
}

func stateBody(state ledger.InvestmentState) gin.H {
	return gin.H{
		"capitalUsd":    state.Capital.String(),
		"resultUsd":     state.Result.String(),
		"roiNominalPct": state.ROINominalPct.StringFixed(2),
		"roiRealPct":    state.ROIRealPct.StringFixed(2),
	}
}
