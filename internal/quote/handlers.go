package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/truenorthpos/pricing-api/internal/common"
	"github.com/truenorthpos/pricing-api/internal/money"
	"github.com/truenorthpos/pricing-api/internal/pricing"
	"github.com/truenorthpos/pricing-api/internal/tax"
)

// Handler wires the quote service to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// NewHandler constructs a Handler with a ready validator instance.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Validate: validator.New()}
}

// Payload tags check request shape only; numeric ranges are owned by the
// engine so violations carry the offending line index.
type volumeBreakPayload struct {
	MinQty          int      `json:"minQty"`
	PriceCents      *int64   `json:"priceCents"`
	DiscountPercent *float64 `json:"discountPercent"`
}

type lineItemPayload struct {
	UnitPriceCents      int64                `json:"unitPriceCents"`
	Quantity            int                  `json:"quantity"`
	DiscountPercent     float64              `json:"discountPercent"`
	DiscountAmountCents int64                `json:"discountAmountCents"`
	CostCents           int64                `json:"costCents"`
	VolumeBreaks        []volumeBreakPayload `json:"volumeBreaks"`
	CustomerTier        string               `json:"customerTier"`
	IsTaxExempt         bool                 `json:"isTaxExempt"`
}

type orderPayload struct {
	Items                []lineItemPayload `json:"items" validate:"required,min=1"`
	OrderDiscountPercent float64           `json:"orderDiscountPercent"`
	OrderDiscountCents   int64             `json:"orderDiscountCents"`
	Province             string            `json:"province"`
	CustomerTier         string            `json:"customerTier"`
	IsTaxExempt          bool              `json:"isTaxExempt"`
}

type extractPayload struct {
	TotalCents int64  `json:"totalCents" validate:"gte=0"`
	Province   string `json:"province"`
}

type marginPayload struct {
	CostCents           int64   `json:"costCents"`
	TargetMarginPercent float64 `json:"targetMarginPercent"`
}

type appliedBreakJSON struct {
	MinQty          int      `json:"minQty"`
	PriceCents      *int64   `json:"priceCents,omitempty"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
}

type lineResultJSON struct {
	Quantity                 int               `json:"quantity"`
	UnitPriceCents           int64             `json:"unitPriceCents"`
	VolumeAdjustedPriceCents int64             `json:"volumeAdjustedPriceCents"`
	AppliedBreak             *appliedBreakJSON `json:"appliedBreak,omitempty"`
	TierKey                  string            `json:"tierKey"`
	TierLabel                string            `json:"tierLabel"`
	TierDiscountPerUnitCents int64             `json:"tierDiscountPerUnitCents"`
	TierDiscountCents        int64             `json:"tierDiscountCents"`
	EffectivePriceCents      int64             `json:"effectivePriceCents"`
	SubtotalCents            int64             `json:"subtotalCents"`
	LineDiscountCents        int64             `json:"lineDiscountCents"`
	LineTotalCents           int64             `json:"lineTotalCents"`
	TotalCostCents           int64             `json:"totalCostCents"`
	MarginCents              int64             `json:"marginCents"`
	MarginPercent            float64           `json:"marginPercent"`
	IsTaxExempt              bool              `json:"isTaxExempt"`
}

type taxResultJSON struct {
	Province           string `json:"province"`
	ProvinceLabel      string `json:"provinceLabel"`
	TaxableAmountCents int64  `json:"taxableAmountCents"`
	HSTCents           int64  `json:"hstCents"`
	GSTCents           int64  `json:"gstCents"`
	PSTCents           int64  `json:"pstCents"`
	TotalTaxCents      int64  `json:"totalTaxCents"`
}

type orderResultJSON struct {
	QuoteID                 string           `json:"quoteId"`
	PricedAt                time.Time        `json:"pricedAt"`
	Lines                   []lineResultJSON `json:"lines"`
	SubtotalCents           int64            `json:"subtotalCents"`
	OrderDiscountCents      int64            `json:"orderDiscountCents"`
	DiscountedSubtotalCents int64            `json:"discountedSubtotalCents"`
	Tax                     taxResultJSON    `json:"tax"`
	GrandTotalCents         int64            `json:"grandTotalCents"`
	TotalCostCents          int64            `json:"totalCostCents"`
	MarginCents             int64            `json:"marginCents"`
	MarginPercent           float64          `json:"marginPercent"`
	Display                 displayJSON      `json:"display"`
}

type displayJSON struct {
	Subtotal   string `json:"subtotal"`
	Discount   string `json:"discount"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grandTotal"`
}

// PriceOrder prices a full cart and returns the aggregate breakdown.
func (h *Handler) PriceOrder(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		h.writeError(w, err)
		return
	}
	in, err := payload.toInput()
	if err != nil {
		h.writeError(w, err)
		return
	}
	priced, err := h.Svc.PriceOrder(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, toOrderJSON(priced))
}

// PriceLine prices a single line item.
func (h *Handler) PriceLine(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var payload lineItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		h.writeError(w, err)
		return
	}
	in, err := payload.toLineInput()
	if err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.Svc.PriceLine(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, toLineJSON(result))
}

// ExtractTax decomposes a tax-inclusive total into pre-tax amount and tax.
func (h *Handler) ExtractTax(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var payload extractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		h.writeError(w, err)
		return
	}
	ex := h.Svc.ExtractTax(payload.TotalCents, payload.Province)
	common.Data(w, http.StatusOK, map[string]any{
		"province":      ex.Rule.Code,
		"provinceLabel": ex.Rule.Label,
		"totalCents":    ex.TotalCents,
		"amountCents":   ex.AmountCents,
		"taxCents":      ex.TaxCents,
		"hstCents":      ex.HSTCents,
		"gstCents":      ex.GSTCents,
		"pstCents":      ex.PSTCents,
	})
}

// MarginTarget solves for the unit price achieving a target margin.
func (h *Handler) MarginTarget(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var payload marginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		h.writeError(w, err)
		return
	}
	price, err := h.Svc.PriceForMargin(payload.CostCents, payload.TargetMarginPercent)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"costCents":           payload.CostCents,
		"targetMarginPercent": payload.TargetMarginPercent,
		"unitPriceCents":      price,
		"display":             money.FormatCurrency(price),
	})
}

// Provinces lists the built-in provincial tax registry.
func (h *Handler) Provinces(w http.ResponseWriter, _ *http.Request) {
	rules := tax.Provinces()
	out := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		out = append(out, map[string]any{
			"code":        rule.Code,
			"label":       rule.Label,
			"hstRate":     rule.HSTRate,
			"gstRate":     rule.GSTRate,
			"pstRate":     rule.PSTRate,
			"compoundPst": rule.CompoundPST,
		})
	}
	common.Data(w, http.StatusOK, out)
}

// Tiers lists the built-in customer tier registry.
func (h *Handler) Tiers(w http.ResponseWriter, _ *http.Request) {
	tiers := pricing.Tiers()
	out := make([]map[string]any, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, map[string]any{
			"key":             tier.Key,
			"label":           tier.Label,
			"discountPercent": tier.DiscountPercent,
		})
	}
	common.Data(w, http.StatusOK, out)
}

func (p orderPayload) toInput() (pricing.OrderInput, error) {
	items := make([]pricing.LineItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		in, err := item.toLineInput()
		if err != nil {
			return pricing.OrderInput{}, err
		}
		items = append(items, in)
	}
	return pricing.OrderInput{
		Items:                items,
		OrderDiscountPercent: p.OrderDiscountPercent,
		OrderDiscountCents:   p.OrderDiscountCents,
		Province:             p.Province,
		CustomerTier:         p.CustomerTier,
		IsTaxExempt:          p.IsTaxExempt,
	}, nil
}

func (p lineItemPayload) toLineInput() (pricing.LineItemInput, error) {
	breaks := make([]pricing.VolumeBreak, 0, len(p.VolumeBreaks))
	for _, vb := range p.VolumeBreaks {
		switch {
		case vb.PriceCents != nil && vb.DiscountPercent != nil:
			return pricing.LineItemInput{}, common.BadRequest("volume break must set either priceCents or discountPercent, not both", nil)
		case vb.PriceCents != nil:
			breaks = append(breaks, pricing.FixedPriceBreak(vb.MinQty, *vb.PriceCents))
		case vb.DiscountPercent != nil:
			breaks = append(breaks, pricing.PercentOffBreak(vb.MinQty, *vb.DiscountPercent))
		default:
			return pricing.LineItemInput{}, common.BadRequest("volume break must set priceCents or discountPercent", nil)
		}
	}
	return pricing.LineItemInput{
		UnitPriceCents:      p.UnitPriceCents,
		Quantity:            p.Quantity,
		DiscountPercent:     p.DiscountPercent,
		DiscountAmountCents: p.DiscountAmountCents,
		CostCents:           p.CostCents,
		VolumeBreaks:        breaks,
		CustomerTier:        p.CustomerTier,
		IsTaxExempt:         p.IsTaxExempt,
	}, nil
}

func toOrderJSON(priced PricedOrder) orderResultJSON {
	res := priced.Result
	lines := make([]lineResultJSON, 0, len(res.Lines))
	for _, line := range res.Lines {
		lines = append(lines, toLineJSON(line))
	}
	return orderResultJSON{
		QuoteID:                 priced.QuoteID,
		PricedAt:                priced.PricedAt,
		Lines:                   lines,
		SubtotalCents:           res.SubtotalCents,
		OrderDiscountCents:      res.OrderDiscountCents,
		DiscountedSubtotalCents: res.DiscountedSubtotalCents,
		Tax: taxResultJSON{
			Province:           res.Tax.Rule.Code,
			ProvinceLabel:      res.Tax.Rule.Label,
			TaxableAmountCents: res.Tax.TaxableAmountCents,
			HSTCents:           res.Tax.HSTCents,
			GSTCents:           res.Tax.GSTCents,
			PSTCents:           res.Tax.PSTCents,
			TotalTaxCents:      res.Tax.TotalTaxCents,
		},
		GrandTotalCents: res.GrandTotalCents,
		TotalCostCents:  res.TotalCostCents,
		MarginCents:     res.MarginCents,
		MarginPercent:   res.MarginPercent,
		Display: displayJSON{
			Subtotal:   res.FormattedSubtotal,
			Discount:   res.FormattedDiscount,
			Tax:        res.FormattedTax,
			GrandTotal: res.FormattedGrandTotal,
		},
	}
}

func toLineJSON(line pricing.LineItemResult) lineResultJSON {
	out := lineResultJSON{
		Quantity:                 line.Quantity,
		UnitPriceCents:           line.UnitPriceCents,
		VolumeAdjustedPriceCents: line.VolumeAdjustedPriceCents,
		TierKey:                  line.TierKey,
		TierLabel:                line.TierLabel,
		TierDiscountPerUnitCents: line.TierDiscountPerUnitCents,
		TierDiscountCents:        line.TierDiscountCents,
		EffectivePriceCents:      line.EffectivePriceCents,
		SubtotalCents:            line.SubtotalCents,
		LineDiscountCents:        line.LineDiscountCents,
		LineTotalCents:           line.LineTotalCents,
		TotalCostCents:           line.TotalCostCents,
		MarginCents:              line.MarginCents,
		MarginPercent:            line.MarginPercent,
		IsTaxExempt:              line.IsTaxExempt,
	}
	if line.AppliedBreak != nil {
		applied := appliedBreakJSON{MinQty: line.AppliedBreak.MinQty}
		switch line.AppliedBreak.Effect {
		case pricing.EffectFixedPrice:
			price := line.AppliedBreak.PriceCents
			applied.PriceCents = &price
		case pricing.EffectPercentOff:
			pct := line.AppliedBreak.Percent
			applied.DiscountPercent = &pct
		}
		out.AppliedBreak = &applied
	}
	return out
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]map[string]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, map[string]string{
				"field":      fe.Namespace(),
				"constraint": fe.Tag(),
			})
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid request", details)
		return
	}

	var inputErr *money.ValidationError
	if errors.As(err, &inputErr) {
		details := map[string]any{
			"field":      inputErr.Field,
			"constraint": inputErr.Constraint,
		}
		var lineErr *pricing.LineError
		if errors.As(err, &lineErr) {
			details["line"] = lineErr.Line
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), details)
		return
	}

	var boundaryErr *pricing.BoundaryError
	if errors.As(err, &boundaryErr) {
		common.JSONError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE", boundaryErr.Error(), nil)
		return
	}

	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}
