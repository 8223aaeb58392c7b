package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/numfmt"
	"github.com/nmorales/patrimonio-backend/internal/usecase/movement"
)

type postMovementRequest struct {
	Kind string `json:"kind" binding:"required"`
	// Amount uses the plain convention: "1234.56"
	Amount    string `json:"amount" binding:"required"`
	Currency  string `json:"currency" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Status    string `json:"status" binding:"required"`
	ConceptID string `json:"conceptId" binding:"required"`
}

// PostMovement handles POST /movements
func (s *Server) PostMovement(c *gin.Context) {
	var req postMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	amount, err := numfmt.Normalize(req.Amount, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}

	movementDate, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	conceptID, err := uuid.Parse(req.ConceptID)
	if err != nil {
		badRequest(c, "invalid conceptId")
		return
	}

	posted, err := s.Movements.PostMovement(c.Request.Context(), movement.PostMovementInput{
		Kind:      domain.MovementKind(req.Kind),
		Amount:    amount,
		Currency:  domain.Currency(req.Currency),
		Date:      movementDate,
		Status:    domain.MovementStatus(req.Status),
		ConceptID: conceptID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"id":                  posted.Movement.ID,
		"amountUsd":           posted.Movement.AmountUSD.String(),
		"exchangeRateApplied": posted.Movement.ExchangeRateApplied.String(),
	}
	if posted.Payment != nil {
		body["liabilityPayment"] = gin.H{
			"id":                    posted.Payment.ID,
			"liabilityId":           posted.Payment.LiabilityID,
			"balanceAfterUsd":       posted.Payment.BalanceAfter.String(),
			"installmentsRemaining": posted.Payment.InstallmentsRemainingAfter,
		}
	}

	c.JSON(http.StatusCreated, body)
}

func parseYearMonthParams(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, "invalid year")
		return 0, 0, false
	}

	monthInt, err := strconv.Atoi(c.Param("month"))
	if err != nil || monthInt < 1 || monthInt > 12 {
		badRequest(c, "invalid month")
		return 0, 0, false
	}

	return year, time.Month(monthInt), true
}

// MonthSummary handles GET /months/:year/:month/summary
func (s *Server) MonthSummary(c *gin.Context) {
	year, month, ok := parseYearMonthParams(c)
	if !ok {
		return
	}

	summary, err := s.Movements.Summary(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	movements := make([]gin.H, 0, len(summary.Movements))
	for _, m := range summary.Movements {
		movements = append(movements, gin.H{
			"id":                  m.ID,
			"kind":                m.Kind,
			"amountUsd":           m.AmountUSD.String(),
			"originalCurrency":    m.OriginalCurrency,
			"exchangeRateApplied": m.ExchangeRateApplied.String(),
			"date":                m.Date.Format(dateLayout),
			"status":              m.Status,
			"conceptId":           m.ConceptID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"year":       summary.Year,
		"month":      int(summary.Month),
		"status":     summary.Status,
		"incomeUsd":  summary.IncomeUSD.String(),
		"expenseUsd": summary.ExpenseUSD.String(),
		"netUsd":     summary.NetUSD.String(),
		"movements":  movements,
	})
}

// CloseMonth handles POST /months/:year/:month/close
func (s *Server) CloseMonth(c *gin.Context) {
	year, month, ok := parseYearMonthParams(c)
	if !ok {
		return
	}

	record, err := s.Months.Close(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":      record.Year,
		"month":     int(record.Month),
		"status":    record.Status,
		"closeDate": record.CloseDate.Format(time.RFC3339),
	})
}

type createConceptRequest struct {
	Name   string `json:"name" binding:"required"`
	Kind   string `json:"kind" binding:"required"`
	Nature string `json:"nature" binding:"required"`
}

// CreateConcept handles POST /concepts
func (s *Server) CreateConcept(c *gin.Context) {
	var req createConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	concept, err := s.Movements.CreateConcept(c.Request.Context(),
		req.Name, domain.MovementKind(req.Kind), domain.ConceptNature(req.Nature))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": concept.ID, "name": concept.Name})
}

// ListConcepts handles GET /concepts
func (s *Server) ListConcepts(c *gin.Context) {
	concepts, err := s.Movements.ListConcepts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]gin.H, 0, len(concepts))
	for _, concept := range concepts {
		response = append(response, gin.H{
			"id":     concept.ID,
			"name":   concept.Name,
			"kind":   concept.Kind,
			"nature": concept.Nature,
		})
	}

	c.JSON(http.StatusOK, response)
}
