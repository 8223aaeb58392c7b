package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/numfmt"
	"github.com/nmorales/patrimonio-backend/internal/usecase/asset"
)

const dateLayout = "2006-01-02"

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

type createAssetRequest struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	FiscalStatus string `json:"fiscalStatus" binding:"required"`
}

type assetResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	FiscalStatus    string    `json:"fiscalStatus"`
	CurrentValueUSD string    `json:"currentValueUsd"`
	LiabilityID     *string   `json:"liabilityId,omitempty"`
	NetUSD          string    `json:"netUsd"`
}

// CreateAsset handles POST /assets
func (s *Server) CreateAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := s.Assets.CreateAsset(c.Request.Context(),
		req.Name, domain.AssetKind(req.Kind), domain.FiscalStatus(req.FiscalStatus))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": created.ID, "name": created.Name})
}

// ListAssets handles GET /assets. The response is always a well-formed list,
// empty when no data exists yet.
func (s *Server) ListAssets(c *gin.Context) {
	assets, err := s.Assets.ListAssets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		item := assetResponse{
			ID:              a.Asset.ID,
			Name:            a.Asset.Name,
			Kind:            string(a.Asset.Kind),
			FiscalStatus:    string(a.Asset.FiscalStatus),
			CurrentValueUSD: "0",
			NetUSD:          "0",
		}

		value := decimalZeroIfNil(a)
		item.CurrentValueUSD = value.String()
		net := value
		if a.Liability != nil {
			id := a.Liability.ID.String()
			item.LiabilityID = &id
			net = net.Sub(a.Liability.RemainingBalanceUSD)
		}
		item.NetUSD = net.String()

		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateAsset handles PUT /assets/:id
func (s *Server) UpdateAsset(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.Assets.UpdateAsset(c.Request.Context(),
		id, req.Name, domain.AssetKind(req.Kind), domain.FiscalStatus(req.FiscalStatus))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": updated.ID, "name": updated.Name})
}

// DeleteAsset handles DELETE /assets/:id
func (s *Server) DeleteAsset(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.Assets.DeleteAsset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addValuationRequest struct {
	// ValueUSD uses the Argentine convention: "1.234,56"
	ValueUSD string `json:"valueUsd" binding:"required"`
	Date     string `json:"date" binding:"required"`
}

// AddValuation handles POST /assets/:id/valuations
func (s *Server) AddValuation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req addValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	value, err := numfmt.Normalize(req.ValueUSD, numfmt.Argentine)
	if err != nil {
		respondError(c, err)
		return
	}

	valuationDate, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	valuation, err := s.Assets.AddValuation(c.Request.Context(), id, value, valuationDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       valuation.ID,
		"valueUsd": valuation.ValueUSD.String(),
		"date":     valuation.Date.Format(dateLayout),
	})
}

type attachLiabilityRequest struct {
	// Amounts use the plain convention: "15000.00"
	TotalAmountUSD       string  `json:"totalAmountUsd" binding:"required"`
	InstallmentsTotal    any     `json:"installmentsTotal" binding:"required"`
	InstallmentAmountUSD string  `json:"installmentAmountUsd" binding:"required"`
	ConceptID            *string `json:"conceptId,omitempty"`
}

// AttachLiability handles POST /assets/:id/liability
func (s *Server) AttachLiability(c *gin.Context) {
	assetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req attachLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	total, err := numfmt.Normalize(req.TotalAmountUSD, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}
	installment, err := numfmt.Normalize(req.InstallmentAmountUSD, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}
	installmentsTotal, err := numfmt.NormalizeInteger(req.InstallmentsTotal, numfmt.Plain)
	if err != nil {
		respondError(c, err)
		return
	}

	liability := &domain.Liability{
		AssetID:               assetID,
		TotalAmountUSD:        total,
		InstallmentsTotal:     installmentsTotal,
		InstallmentsRemaining: installmentsTotal,
		InstallmentAmountUSD:  installment,
		RemainingBalanceUSD:   total,
	}

	if req.ConceptID != nil {
		conceptID, err := uuid.Parse(*req.ConceptID)
		if err != nil {
			badRequest(c, "invalid conceptId")
			return
		}
		liability.ConceptID = &conceptID
	}

	if err := s.Assets.AttachLiability(c.Request.Context(), liability); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, liabilityResponse(liability))
}

// GetLiability handles GET /assets/:id/liability
func (s *Server) GetLiability(c *gin.Context) {
	assetID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	liability, err := s.Assets.GetLiabilityFor(c.Request.Context(), assetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if liability == nil {
		// An unfinanced asset is not an error on the read side
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, liabilityResponse(liability))
}

func decimalZeroIfNil(a *asset.AssetWithValue) decimal.Decimal {
	if a.LatestValuation == nil {
		return decimal.Zero
	}
	return a.LatestValuation.ValueUSD
}

func liabilityResponse(l *domain.Liability) gin.H {
	return gin.H{
		"id":                    l.ID,
		"assetId":               l.AssetID,
		"totalAmountUsd":        l.TotalAmountUSD.String(),
		"installmentsTotal":     l.InstallmentsTotal,
		"installmentsRemaining": l.InstallmentsRemaining,
		"installmentAmountUsd":  l.InstallmentAmountUSD.String(),
		"remainingBalanceUsd":   l.RemainingBalanceUSD.String(),
		"status":                l.Status(),
	}
}
