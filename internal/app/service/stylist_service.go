package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	stylistCandidateLimit = 40
	stylistFallbackLimit  = 20
	stylistOfflinePicks   = 4
)

type StylistRequest struct {
	Gender         string
	AgeGroup       string
	Occasion       string
	BudgetMin      *decimal.Decimal
	BudgetMax      *decimal.Decimal
	Colors         []string
	BodyType       string
	SizePreference string
}

type StylistRecommendation struct {
	Product model.Product `json:"product"`
	Reason  string        `json:"reason"`
}

type StylistResponse struct {
	Message         string                  `json:"message"`
	Recommendations []StylistRecommendation `json:"recommendations"`
}

// StylistService suggests products from the active catalog. It never writes.
type StylistService interface {
	Recommend(ctx context.Context, req StylistRequest) (*StylistResponse, error)
}

type stylistService struct {
	catalog CatalogSnapshotService
	ai      AIService
}

func NewStylistService(catalog CatalogSnapshotService, ai AIService) StylistService {
	return &stylistService{catalog: catalog, ai: ai}
}

func (s *stylistService) Recommend(ctx context.Context, req StylistRequest) (*StylistResponse, error) {
	products, err := s.catalog.ActiveProducts(ctx)
	if err != nil {
		logger.Error("Stylist could not read the catalog", err, nil)
		return &StylistResponse{
			Message:         "I'm having a little trouble reaching the collection right now. Please try again in a moment!",
			Recommendations: []StylistRecommendation{},
		}, nil
	}

	candidates := filterCandidates(products, req)

	content, err := s.ai.GenerateJSON(ctx, buildStylistPrompt(req, candidates))
	if err != nil {
		message := "I analyzed your request and found these great options for you."
		reason := "Matches your style preferences."
		if errors.Is(err, ErrAIUnavailable) {
			message = "I'm in offline mode right now, but here are some popular items for you!"
			reason = "A popular choice in our store."
		} else {
			logger.Warn("Stylist model call failed, using offline picks", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return offlineRecommendations(candidates, message, reason), nil
	}

	resp, err := mapModelAnswer(content, candidates)
	if err != nil {
		logger.Warn("Stylist model answer unusable, using offline picks", map[string]interface{}{
			"error": err.Error(),
		})
		return offlineRecommendations(candidates, "I analyzed your request and found these great options for you.", "Matches your style preferences."), nil
	}
	return resp, nil
}

func matchesGender(p *model.Product, gender string) bool {
	text := strings.ToLower(p.Name + " " + p.Description)
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "men", "man":
		return strings.Contains(strings.ReplaceAll(text, "women", ""), "men")
	case "female", "women", "woman":
		for _, kw := range []string{"women", "lady", "ladies", "girl"} {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
	return true
}

// filterCandidates narrows the snapshot by gender keywords and budget, falling back to the
// first products of the snapshot when nothing matches.
func filterCandidates(products []model.Product, req StylistRequest) []model.Product {
	out := make([]model.Product, 0, stylistCandidateLimit)
	for i := range products {
		p := &products[i]
		if !p.IsActive || !matchesGender(p, req.Gender) {
			continue
		}
		price := p.EffectivePrice()
		if req.BudgetMin != nil && price.LessThan(*req.BudgetMin) {
			continue
		}
		if req.BudgetMax != nil && price.GreaterThan(*req.BudgetMax) {
			continue
		}
		out = append(out, *p)
		if len(out) == stylistCandidateLimit {
			break
		}
	}
	if len(out) > 0 {
		return out
	}

	for i := range products {
		if products[i].IsActive {
			out = append(out, products[i])
		}
		if len(out) == stylistFallbackLimit {
			break
		}
	}
	return out
}

func offlineRecommendations(candidates []model.Product, message, reason string) *StylistResponse {
	recs := make([]StylistRecommendation, 0, stylistOfflinePicks)
	for i := 0; i < len(candidates) && i < stylistOfflinePicks; i++ {
		recs = append(recs, StylistRecommendation{Product: candidates[i], Reason: reason})
	}
	return &StylistResponse{Message: message, Recommendations: recs}
}

type stylistCandidate struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func buildStylistPrompt(req StylistRequest, candidates []model.Product) string {
	list := make([]stylistCandidate, 0, len(candidates))
	for _, p := range candidates {
		category := "Uncategorized"
		if p.Category != nil {
			category = p.Category.Name
		}
		list = append(list, stylistCandidate{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.EffectivePrice().StringFixed(2),
			Category:    category,
		})
	}
	catalog, _ := json.Marshal(list)

	budgetMin, budgetMax := "0", "Premium"
	if req.BudgetMin != nil {
		budgetMin = req.BudgetMin.String()
	}
	if req.BudgetMax != nil {
		budgetMax = req.BudgetMax.String()
	}

	var prompt strings.Builder
	prompt.WriteString("You are the in-house fashion stylist for an online clothing outlet.\n")
	prompt.WriteString("Give personalised, professional style advice using only the products listed below.\n\n")

	prompt.WriteString("CUSTOMER:\n")
	prompt.WriteString(fmt.Sprintf("- Shopping for: %s (%s)\n", req.Gender, orDefault(req.AgeGroup, "all ages")))
	prompt.WriteString(fmt.Sprintf("- Occasion: %s\n", req.Occasion))
	prompt.WriteString(fmt.Sprintf("- Budget: %s to %s PKR\n", budgetMin, budgetMax))
	if len(req.Colors) > 0 {
		prompt.WriteString(fmt.Sprintf("- Preferred colours: %s\n", strings.Join(req.Colors, ", ")))
	}
	prompt.WriteString(fmt.Sprintf("- Fit notes: %s\n", orDefault(req.BodyType, "standard fit")))
	if req.SizePreference != "" {
		prompt.WriteString(fmt.Sprintf("- Size: %s\n", req.SizePreference))
	}

	prompt.WriteString("\nAVAILABLE PRODUCTS (JSON):\n")
	prompt.Write(catalog)

	prompt.WriteString("\n\nRULES:\n")
	prompt.WriteString(fmt.Sprintf("- Write 2-3 sentences of styling advice for the %s.\n", req.Occasion))
	prompt.WriteString("- Pick the 4-6 products that work best together or give good variety.\n")
	prompt.WriteString("- For each pick, explain why it suits the occasion and the customer.\n")
	prompt.WriteString("- Only use product ids from the list above.\n")
	prompt.WriteString("\nRespond with JSON only, in this shape:\n")
	prompt.WriteString(`{"message": "greeting and advice", "recommendations": [{"product_id": 1, "reason": "why it works"}]}`)

	return prompt.String()
}

type stylistAnswer struct {
	Message         string `json:"message"`
	Recommendations []struct {
		ProductID uint   `json:"product_id"`
		Reason    string `json:"reason"`
	} `json:"recommendations"`
}

// mapModelAnswer keeps only picks that name a candidate product, in candidate order.
func mapModelAnswer(content string, candidates []model.Product) (*StylistResponse, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var answer stylistAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse stylist answer: %w", err)
	}

	reasons := make(map[uint]string, len(answer.Recommendations))
	for _, r := range answer.Recommendations {
		reasons[r.ProductID] = r.Reason
	}

	recs := make([]StylistRecommendation, 0, len(reasons))
	for _, p := range candidates {
		if reason, ok := reasons[p.ID]; ok {
			recs = append(recs, StylistRecommendation{Product: p, Reason: reason})
		}
	}

	message := answer.Message
	if message == "" {
		message = "Here are my personalised recommendations for you."
	}
	return &StylistResponse{Message: message, Recommendations: recs}, nil
}
