// Footprint HTTP handlers.
//
//   - POST /footprints           (compute and save)
//   - POST /footprints/estimate  (compute only)
//
// Both accept a JSON object or a form-encoded body. Values may be sent as
// JSON strings, numbers or booleans; they are normalized to strings and
// parsed with footprint.ParseInput, which names the failing field.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/footprint"
	"github.com/tbourn/go-eco-backend/internal/http/middleware"
	"github.com/tbourn/go-eco-backend/internal/services"
)

// FlexValue is a JSON scalar (string, number or boolean) kept as text.
type FlexValue string

// UnmarshalJSON accepts any JSON scalar. null leaves the value empty.
func (v *FlexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*v = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FlexValue(s)
	case string(b) == "true" || string(b) == "false":
		*v = FlexValue(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("expected a string, number or boolean")
		}
		*v = FlexValue(n.String())
	}
	return nil
}

// FootprintRequest is the estimation payload. Field names match the stored
// history record.
type FootprintRequest struct {
	ElectricityKWhPerMonth FlexValue `json:"electricityKWhPerMonth" form:"electricityKWhPerMonth" swaggertype:"string" example:"300"`
	WaterLitresPerDay      FlexValue `json:"waterLitresPerDay" form:"waterLitresPerDay" swaggertype:"string" example:"150"`
	DistanceKmPerDay       FlexValue `json:"distanceKmPerDay" form:"distanceKmPerDay" swaggertype:"string" example:"20"`
	TransportMode          FlexValue `json:"transportMode" form:"transportMode" swaggertype:"string" example:"car"`
	TreesOwned             FlexValue `json:"treesOwned" form:"treesOwned" swaggertype:"string" example:"2"`
	HasSolar               FlexValue `json:"hasSolar" form:"hasSolar" swaggertype:"string" example:"no"`
	SegregatesWaste        FlexValue `json:"segregatesWaste" form:"segregatesWaste" swaggertype:"string" example:"yes"`
	ReusesItems            FlexValue `json:"reusesItems" form:"reusesItems" swaggertype:"string" example:"yes"`
	LightUsageDiscipline   FlexValue `json:"lightUsageDiscipline" form:"lightUsageDiscipline" swaggertype:"string" example:"sometimes"`
}

func (r FootprintRequest) raw() footprint.RawInput {
	return footprint.RawInput{
		Electricity: string(r.ElectricityKWhPerMonth),
		Water:       string(r.WaterLitresPerDay),
		Distance:    string(r.DistanceKmPerDay),
		Transport:   string(r.TransportMode),
		Trees:       string(r.TreesOwned),
		Solar:       string(r.HasSolar),
		Segregate:   string(r.SegregatesWaste),
		Reuse:       string(r.ReusesItems),
		Lights:      string(r.LightUsageDiscipline),
	}
}

// ComputeResponse wraps a computed result. Saved is false when the result
// could not be written to history; Warning then explains why.
type ComputeResponse struct {
	Result  domain.FootprintResult `json:"result"`
	Saved   bool                   `json:"saved"`
	Warning string                 `json:"warning,omitempty" example:"result not saved to history"`
}

// EstimateResponse wraps an unsaved result.
type EstimateResponse struct {
	Result domain.FootprintResult `json:"result"`
}

// bindFootprint reads the body as JSON or form data and parses it. On
// failure it has already written the error response.
func bindFootprint(c *gin.Context) (domain.FootprintInput, bool) {
	var req FootprintRequest
	var err error
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		err = c.ShouldBind(&req)
	default:
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return domain.FootprintInput{}, false
	}
	in, err := footprint.ParseInput(req.raw())
	if err != nil {
		failService(c, err)
		return domain.FootprintInput{}, false
	}
	return in, true
}

// ComputeFootprint godoc
// @ID          computeFootprint
// @Summary     Compute and save a footprint
// @Description Estimates the daily CO2 footprint and appends it to history. When history cannot be written the result is still returned with saved=false.
// @Tags        Footprints
// @Accept      json,x-www-form-urlencoded
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Replay-safe retry key"  example(3f1c2a-retry-1)
// @Param       body             body    handlers.FootprintRequest  true  "Lifestyle inputs"
//
// @Success     201  {object}  handlers.ComputeResponse  "Saved"
// @Success     200  {object}  handlers.ComputeResponse  "Computed, not saved"
// @Failure     400  {object}  handlers.ErrorResponse    "Invalid input"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /footprints [post]
func (h *Handlers) ComputeFootprint(c *gin.Context) {
	in, valid := bindFootprint(c)
	if !valid {
		return
	}
	res, err := h.fp.Compute(c.Request.Context(), in)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, ComputeResponse{Result: res, Saved: true})
	case errors.Is(err, services.ErrPersistence) && !res.Timestamp.IsZero():
		logUpstream(c, err)
		middleware.SkipIdempotentSave(c)
		ok(c, http.StatusOK, ComputeResponse{Result: res, Saved: false, Warning: "result not saved to history"})
	default:
		failService(c, err)
	}
}

// EstimateFootprint godoc
// @ID          estimateFootprint
// @Summary     Estimate a footprint without saving
// @Tags        Footprints
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Param       body  body      handlers.FootprintRequest  true  "Lifestyle inputs"
// @Success     200   {object}  handlers.EstimateResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid input"
// @Router      /footprints/estimate [post]
func (h *Handlers) EstimateFootprint(c *gin.Context) {
	in, valid := bindFootprint(c)
	if !valid {
		return
	}
	res, err := h.fp.Estimate(c.Request.Context(), in)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, EstimateResponse{Result: res})
}

