package plans

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type Plan struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	PricePerUserMonthly float64        `json:"price_per_user_monthly"`
	PricePerUserAnnual  float64        `json:"price_per_user_annual"`
	Features            map[string]any `json:"features"`
	DisplayOrder        int            `json:"display_order"`
	IsActive            bool           `json:"is_active"`
}

// Enabled — фича включена флагом true или положительным лимитом.
func (p Plan) Enabled(feature string) bool {
	switch v := p.Features[feature].(type) {
	case bool:
		return v
	case float64:
		return v > 0 || v == -1 // -1 — безлимит
	case int:
		return v > 0 || v == -1
	}
	return false
}

// Limit возвращает числовой лимит фичи, если он задан числом.
func (p Plan) Limit(feature string) (float64, bool) {
	switch v := p.Features[feature].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// FeatureSet — множество включённых фич (для фильтрации меню).
func (p Plan) FeatureSet() map[string]bool {
	out := make(map[string]bool, len(p.Features))
	for k := range p.Features {
		if p.Enabled(k) {
			out[k] = true
		}
	}
	return out
}

// FeatureKeys — ключи фич по алфавиту.
func (p Plan) FeatureKeys() []string {
	keys := make([]string, 0, len(p.Features))
	for k := range p.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FeatureValue — человекочитаемое значение фичи.
func (p Plan) FeatureValue(feature string) string {
	switch v := p.Features[feature].(type) {
	case bool:
		if v {
			return "✓"
		}
		return "—"
	case float64:
		if v == -1 {
			return "без ограничений"
		}
		if v == math.Trunc(v) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case nil:
		return "—"
	default:
		return fmt.Sprint(v)
	}
}

// AnnualSavingsPercent — экономия годовой оплаты против 12 месяцев помесячно.
func (p Plan) AnnualSavingsPercent() float64 {
	yearly := p.PricePerUserMonthly * 12
	if yearly <= 0 || p.PricePerUserAnnual <= 0 || p.PricePerUserAnnual >= yearly {
		return 0
	}
	return math.Round((yearly-p.PricePerUserAnnual)/yearly*1000) / 10
}

// Sort упорядочивает по display_order, затем по имени. Исходный срез не меняется.
func Sort(in []Plan) []Plan {
	out := make([]Plan, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func Find(list []Plan, id string) (Plan, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
